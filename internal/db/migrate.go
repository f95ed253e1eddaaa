package db

import (
	"fmt"
	"log"
)

// schema описывает все таблицы приложения. Выполняется при старте,
// все выражения идемпотентны (IF NOT EXISTS).
const schema = `
-- Пользователи
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Навыки (объявления)
CREATE TABLE IF NOT EXISTS skills (
    id UUID PRIMARY KEY,
    author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    level TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_level CHECK (level IN ('Beginner', 'Intermediate', 'Advanced'))
);

CREATE INDEX IF NOT EXISTS idx_skills_author_id ON skills(author_id);
CREATE INDEX IF NOT EXISTS idx_skills_created_at ON skills(created_at DESC);

-- Заявки на обучение/обмен. Принадлежат навыку, у навыка нет заявок
-- вне этой таблицы.
CREATE TABLE IF NOT EXISTS skill_requests (
    id UUID PRIMARY KEY,
    skill_id UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    type TEXT NOT NULL DEFAULT 'learn',
    message TEXT NOT NULL DEFAULT '',
    offered_skill JSONB,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_type CHECK (type IN ('learn', 'exchange')),
    CONSTRAINT valid_status CHECK (status IN ('pending', 'accepted', 'rejected', 'connected'))
);

CREATE INDEX IF NOT EXISTS idx_skill_requests_skill_id ON skill_requests(skill_id);
CREATE INDEX IF NOT EXISTS idx_skill_requests_user_id ON skill_requests(user_id);

-- Связи между пользователями. Каждая сторона хранит свою запись,
-- зеркальная запись создается отдельной вставкой.
CREATE TABLE IF NOT EXISTS connections (
    id UUID PRIMARY KEY,
    owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    counterpart_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    skill_offered TEXT NOT NULL,
    skill_received TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    connected_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_connection_status CHECK (status IN ('active', 'completed', 'paused'))
);

CREATE INDEX IF NOT EXISTS idx_connections_owner_id ON connections(owner_id);
CREATE INDEX IF NOT EXISTS idx_connections_connected_at ON connections(connected_at DESC);
`

// Migrate создает схему базы данных, если она еще не создана
func Migrate() error {
	ctx, cancel := GetContext()
	defer cancel()

	if _, err := Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ошибка при создании схемы базы данных: %w", err)
	}

	log.Println("✅ Схема базы данных актуальна")
	return nil
}
