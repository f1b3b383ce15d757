package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL,
    password_hash TEXT NOT NULL,
    name VARCHAR(100) NOT NULL,
    phone VARCHAR(30),
    birth_date DATE,
    skill_level VARCHAR(20) NOT NULL DEFAULT 'beginner',
    avatar_url TEXT,
    about TEXT,
    preferences JSONB NOT NULL DEFAULT '{}'::jsonb,
    total_points INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    max_streak INTEGER NOT NULL DEFAULT 0,
    last_active_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_skill_level CHECK (skill_level IN ('beginner', 'intermediate', 'advanced')),
    CONSTRAINT valid_points CHECK (total_points >= 0),
    CONSTRAINT valid_streak CHECK (current_streak >= 0 AND max_streak >= 0)
);

-- Email uniqueness is case-insensitive
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_total_points ON users(total_points DESC);
CREATE INDEX IF NOT EXISTS idx_users_last_active ON users(last_active_date) WHERE current_streak > 0;

CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS update_users_updated_at ON users;
CREATE TRIGGER update_users_updated_at
    BEFORE UPDATE ON users
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_users_updated_at ON users;
DROP TABLE IF EXISTS users;
DROP FUNCTION IF EXISTS update_updated_at_column();
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE CATALOG (courses, lessons, signs)
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS courses (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(200) NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    level VARCHAR(20) NOT NULL DEFAULT 'beginner',
    category VARCHAR(50) NOT NULL DEFAULT 'general',
    image_url TEXT,
    order_index INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_course_level CHECK (level IN ('beginner', 'intermediate', 'advanced'))
);

CREATE INDEX IF NOT EXISTS idx_courses_order ON courses(order_index, id);
CREATE INDEX IF NOT EXISTS idx_courses_level ON courses(level);
CREATE INDEX IF NOT EXISTS idx_courses_category ON courses(category);

CREATE TABLE IF NOT EXISTS lessons (
    id BIGSERIAL PRIMARY KEY,
    course_id BIGINT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    video_url TEXT,
    order_index INTEGER NOT NULL DEFAULT 0,
    duration_minutes INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT unique_lesson_title UNIQUE (course_id, title),
    CONSTRAINT valid_duration CHECK (duration_minutes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_lessons_course_order ON lessons(course_id, order_index, id);

CREATE TABLE IF NOT EXISTS signs (
    id BIGSERIAL PRIMARY KEY,
    word VARCHAR(100) NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    category VARCHAR(50),
    video_url TEXT,
    image_url TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_signs_word_lower ON signs(LOWER(word));
`

const migration002Down = `
DROP TABLE IF EXISTS signs;
DROP TABLE IF EXISTS lessons;
DROP TABLE IF EXISTS courses;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE PROGRESS AND ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS user_progress (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    lesson_id BIGINT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
    score DOUBLE PRECISION NOT NULL DEFAULT 0,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMP WITH TIME ZONE,
    recognition_data JSONB,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- One record per (user, lesson); the upsert relies on it
    CONSTRAINT unique_user_lesson UNIQUE (user_id, lesson_id),
    CONSTRAINT valid_score CHECK (score >= 0 AND score <= 100)
);

CREATE INDEX IF NOT EXISTS idx_progress_user ON user_progress(user_id);
CREATE INDEX IF NOT EXISTS idx_progress_completed_at ON user_progress(completed_at DESC) WHERE completed = TRUE;

CREATE TABLE IF NOT EXISTS achievements (
    id BIGSERIAL PRIMARY KEY,
    type VARCHAR(50) NOT NULL UNIQUE,
    title VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    icon VARCHAR(20) NOT NULL DEFAULT '',
    points INTEGER NOT NULL DEFAULT 0,

    CONSTRAINT valid_achievement_points CHECK (points >= 0)
);

CREATE TABLE IF NOT EXISTS user_achievements (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    achievement_id BIGINT NOT NULL REFERENCES achievements(id) ON DELETE CASCADE,
    earned_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Granting is a single conditional insert against this constraint
    CONSTRAINT unique_user_achievement UNIQUE (user_id, achievement_id)
);

CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id, earned_at DESC);

INSERT INTO achievements (type, title, description, icon, points) VALUES
    ('first_lesson', 'First Steps', 'Complete your first lesson', '🎯', 10),
    ('five_lessons', 'Getting Started', 'Complete 5 lessons', '📚', 25),
    ('ten_lessons', 'Dedicated Learner', 'Complete 10 lessons', '🏅', 50),
    ('twenty_five_lessons', 'Sign Master', 'Complete 25 lessons', '🏆', 100),
    ('high_score', 'High Achiever', 'Keep an average score of 80 or higher', '⭐', 50)
ON CONFLICT (type) DO NOTHING;
`

const migration003Down = `
DROP TABLE IF EXISTS user_achievements;
DROP TABLE IF EXISTS achievements;
DROP TABLE IF EXISTS user_progress;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE ACTIVITY, RECOGNITION AND NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
CREATE TABLE IF NOT EXISTS daily_activity (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    activity_date DATE NOT NULL,
    lessons_completed INTEGER NOT NULL DEFAULT 0,
    signs_learned INTEGER NOT NULL DEFAULT 0,
    practice_minutes INTEGER NOT NULL DEFAULT 0,
    points_earned INTEGER NOT NULL DEFAULT 0,

    CONSTRAINT unique_user_day UNIQUE (user_id, activity_date)
);

CREATE INDEX IF NOT EXISTS idx_daily_activity_user_date ON daily_activity(user_id, activity_date DESC);

CREATE TABLE IF NOT EXISTS recognition_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID REFERENCES users(id) ON DELETE SET NULL,
    sign_id BIGINT REFERENCES signs(id) ON DELETE SET NULL,
    frame_data JSONB,
    predicted_sign VARCHAR(100),
    confidence DOUBLE PRECISION,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_confidence CHECK (confidence IS NULL OR (confidence >= 0 AND confidence <= 1))
);

CREATE INDEX IF NOT EXISTS idx_recognition_user ON recognition_attempts(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS user_notifications (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    message TEXT NOT NULL,
    type VARCHAR(20) NOT NULL DEFAULT 'info',
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notifications_unread ON user_notifications(user_id, created_at DESC) WHERE is_read = FALSE;
`

const migration004Down = `
DROP TABLE IF EXISTS user_notifications;
DROP TABLE IF EXISTS recognition_attempts;
DROP TABLE IF EXISTS daily_activity;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 005: FIRST COMPLETION STAMP
// ══════════════════════════════════════════════════════════════════════════════

// first_completion_id is written once, by the upsert that first completes the
// lesson. Rows completed before this migration get a stamp no writer holds.
const migration005Up = `
ALTER TABLE user_progress ADD COLUMN IF NOT EXISTS first_completion_id UUID;

UPDATE user_progress
SET first_completion_id = gen_random_uuid()
WHERE completed = TRUE AND first_completion_id IS NULL;
`

const migration005Down = `
ALTER TABLE user_progress DROP COLUMN IF EXISTS first_completion_id;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_users", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_catalog", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_progress_achievements", UpSQL: migration003Up, DownSQL: migration003Down},
		{Version: 4, Name: "create_activity_recognition_notifications", UpSQL: migration004Up, DownSQL: migration004Down},
		{Version: 5, Name: "add_progress_first_completion", UpSQL: migration005Up, DownSQL: migration005Down},
	}
}
