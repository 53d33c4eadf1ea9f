package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"aable-presence/common/config"
	"aable-presence/common/database"
	"aable-presence/internal/consumer"
	"aable-presence/internal/normalizer"
	"aable-presence/internal/repository"

	"go.uber.org/zap"
)

// 检查 AA_BLE 工作簿中的工号是否都能在 employees 表中找到姓名与工作区域
// 用法: check-reference <workbook.xlsx>
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: check-reference <workbook.xlsx>")
		os.Exit(2)
	}
	path := os.Args[1]

	dbCfg := &config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "aable",
		SSLMode:  "disable",
	}
	dbCfg.LoadFromEnv("DB")

	db, err := database.NewPostgresDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	loader := consumer.NewWorkbookLoader(zap.NewNop())
	table, err := loader.ReadWorkbook(consumer.WorkbookFile{
		Path:     path,
		Name:     filepath.Base(path),
		FileDate: normalizer.ParseDateFromFilename(filepath.Base(path)),
	})
	if err != nil {
		log.Fatalf("Failed to read workbook: %v", err)
	}

	fmt.Printf("=== Columns in %s ===\n", filepath.Base(path))
	for _, col := range normalizer.ResolveColumns(table) {
		fmt.Printf("  %-14s index=%d (%s)\n", col.Column, col.Index, col.Strategy)
	}

	// 去重后的工号
	seen := map[string]bool{}
	var identities []string
	for _, r := range normalizer.ParseReadings(normalizer.NormalizeColumns(table)) {
		if r.IdentityCode == "" || seen[r.IdentityCode] {
			continue
		}
		seen[r.IdentityCode] = true
		identities = append(identities, r.IdentityCode)
	}
	sort.Strings(identities)

	repo := repository.NewPostgresReferenceRepository(db, zap.NewNop())
	employees, err := repo.FindEmployees(context.Background(), identities)
	if err != nil {
		log.Fatalf("Failed to query employees: %v", err)
	}
	found := map[string]repository.Employee{}
	for _, e := range employees {
		found[e.IdentityCode] = e
	}

	fmt.Printf("\n=== %d identities, %d found in employees ===\n", len(identities), len(found))
	missing := 0
	for _, id := range identities {
		e, ok := found[id]
		switch {
		case !ok:
			missing++
			fmt.Printf("  ❌ %s: not found\n", id)
		case e.FullName == "" || e.WorkArea == "":
			missing++
			fmt.Printf("  ⚠️ %s: name=%q work_area=%q\n", id, e.FullName, e.WorkArea)
		}
	}
	if missing == 0 {
		fmt.Println("  ✅ All identities have reference data")
		return
	}
	os.Exit(1)
}
