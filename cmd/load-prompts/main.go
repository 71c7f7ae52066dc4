package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"

	"truth-or-dare/internal/config"
	"truth-or-dare/internal/db"
	"truth-or-dare/internal/rotation"
)

type promptRecord struct {
	Category db.Category
	Text     string
}

func main() {
	filePath := flag.String("file", "prompts.csv", "path to prompts csv (category,text)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	records, err := readPrompts(*filePath)
	if err != nil {
		log.Fatalf("failed to read prompts: %v", err)
	}

	svc := rotation.NewService(conn)
	inserted := 0
	for _, record := range records {
		if _, err := svc.AddPrompt(record.Category, record.Text, db.CreatorImport); err != nil {
			log.Fatalf("failed to insert prompt %q: %v", record.Text, err)
		}
		inserted++
	}

	log.Printf("loaded %d prompts", inserted)
}

func readPrompts(path string) ([]promptRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []promptRecord
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 {
			continue
		}
		category, err := db.ParseCategory(row[0])
		if err != nil {
			log.Printf("skipping row %d: %v", i+1, err)
			continue
		}
		text := strings.TrimSpace(row[1])
		if text == "" {
			continue
		}
		records = append(records, promptRecord{Category: category, Text: text})
	}
	return records, nil
}
