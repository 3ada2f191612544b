package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// InitPostgres 打开连接池并 ping 一次；失败时 DB 保持 nil
func InitPostgres(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(Ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	DB = db
	return nil
}

// Close 关闭已经打开的连接
func Close() {
	if Rdb != nil {
		_ = Rdb.Close()
		Rdb = nil
	}
	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
