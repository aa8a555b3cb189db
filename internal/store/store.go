// Файл: internal/store/store.go
package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Store — типизированный доступ к базе данных. Хранилище создается один раз
// при старте процесса и передается менеджерам явно, без пакетных глобалов,
// чтобы в тестах его можно было подменить.
type Store struct {
	db *sql.DB
}

// New оборачивает готовое соединение. Используется в тестах.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open открывает соединение с базой данных, настраивает пул и выполняет
// миграции.
func Open(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка проверки соединения с базой данных: %w", err)
	}
	log.Println("Успешное подключение к базе данных.")

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		return nil, err
	}
	return st, nil
}

// Close закрывает соединение с базой данных.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate создает таблицы, если их еще нет. Все таблицы создаются в одной
// транзакции.
func (s *Store) migrate() (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции для создания таблиц: %w", err)
	}
	defer func() {
		if err != nil {
			log.Printf("Откат транзакции миграции из-за ошибки: %v", err)
			tx.Rollback()
		}
	}()

	createTablesSQL := `
        CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username VARCHAR(100) UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            visibility_scope TEXT,
            full_name VARCHAR(200),
            created_at TIMESTAMP DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS sessions (
            id SERIAL PRIMARY KEY,
            token TEXT UNIQUE NOT NULL,
            user_id INTEGER REFERENCES users(id),
            created_at TIMESTAMP DEFAULT NOW(),
            expires_at TIMESTAMP NOT NULL,
            valid BOOLEAN DEFAULT TRUE
        );
        CREATE TABLE IF NOT EXISTS cities (
            id SERIAL PRIMARY KEY,
            name VARCHAR(100) UNIQUE NOT NULL
        );
        CREATE TABLE IF NOT EXISTS leaflets (
            id SERIAL PRIMARY KEY,
            name VARCHAR(200) NOT NULL,
            value FLOAT DEFAULT 0
        );
        CREATE TABLE IF NOT EXISTS workers (
            id SERIAL PRIMARY KEY,
            full_name VARCHAR(200) NOT NULL,
            phone VARCHAR(20),
            telegram_username VARCHAR(100)
        );
        CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            full_name VARCHAR(200) NOT NULL,
            phone VARCHAR(20) NOT NULL,
            address TEXT,
            status TEXT NOT NULL,
            arrive_date TIMESTAMP NOT NULL,
            visit_type TEXT,
            city_id INTEGER REFERENCES cities(id),
            leaflet_id INTEGER REFERENCES leaflets(id),
            equipment_type TEXT,
            received FLOAT,
            outlay FLOAT,
            received_worker FLOAT,
            master_id INTEGER REFERENCES workers(id),
            is_notificated BOOLEAN DEFAULT FALSE,
            date_created TIMESTAMP DEFAULT NOW(),
            date_done TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS order_documents (
            id SERIAL PRIMARY KEY,
            order_id INTEGER REFERENCES orders(id),
            file_path TEXT NOT NULL,
            uploaded_at TIMESTAMP DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS distributors (
            id SERIAL PRIMARY KEY,
            full_name VARCHAR(200) NOT NULL,
            phone VARCHAR(20),
            telegram VARCHAR(100),
            invited_by VARCHAR(200)
        );
        CREATE TABLE IF NOT EXISTS distributor_documents (
            id SERIAL PRIMARY KEY,
            distributor_id INTEGER REFERENCES distributors(id),
            file_path TEXT NOT NULL,
            uploaded_at TIMESTAMP DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS leaflet_orders (
            id SERIAL PRIMARY KEY,
            city_id INTEGER REFERENCES cities(id),
            leaflet_id INTEGER REFERENCES leaflets(id),
            distributor_id INTEGER REFERENCES distributors(id),
            quantity INTEGER NOT NULL,
            status TEXT NOT NULL,
            distributed INTEGER DEFAULT 0,
            returned INTEGER DEFAULT 0,
            profit FLOAT DEFAULT 0,
            payment_photo TEXT,
            who_did VARCHAR(200),
            date_created TIMESTAMP DEFAULT NOW(),
            date_done TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS goals (
            id INTEGER PRIMARY KEY,
            all_target FLOAT DEFAULT 0,
            month_target FLOAT DEFAULT 0,
            day_target FLOAT DEFAULT 0
        );
        CREATE TABLE IF NOT EXISTS logs (
            id SERIAL PRIMARY KEY,
            who_did VARCHAR(200) NOT NULL,
            what_happened TEXT NOT NULL,
            type TEXT,
            created_at TIMESTAMP DEFAULT NOW()
        );
    `
	if _, err = tx.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("ошибка создания таблиц: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции миграции: %w", err)
	}
	log.Println("Миграции выполнены.")
	return nil
}
