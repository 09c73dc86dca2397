package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"

	"bazaar-backend/config"
	"bazaar-backend/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := sql.Open("mysql", cfg.MySQL.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatal("Migration failed:", err)
	}
	fmt.Println("Migration completed.")
}
