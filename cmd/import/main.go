// Command import loads a student collection exported from the browser app
// (the value of its "students" localStorage entry) into slot storage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/iman-school/caseload/config"
	"github.com/iman-school/caseload/database"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services"
)

func main() {
	file := flag.String("file", "", "path to the exported JSON array")
	force := flag.Bool("force", false, "replace the slot even if it already holds students")
	merge := flag.Bool("merge", false, "add the exported students to the existing ones; existing ids win")
	dryRun := flag.Bool("dry-run", false, "validate the export without writing")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read export: %v", err)
	}
	imported, err := services.DecodeStudents(raw)
	if err != nil {
		log.Fatalf("❌ Export is not a valid student collection: %v", err)
	}
	fmt.Printf("✅ Export holds %d valid students\n", len(imported))
	if *dryRun {
		return
	}

	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file could not be loaded, using system environment variables")
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	store, err := database.Open(env)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	existing, err := readSlot(ctx, store, env.STORAGE_SLOT)
	if err != nil {
		log.Fatalf("Failed to read slot %q: %v", env.STORAGE_SLOT, err)
	}

	students := imported
	switch {
	case *merge:
		students = mergeStudents(existing, imported)
	case len(existing) > 0 && !*force:
		log.Fatalf("Slot %q already holds %d students; use -merge or -force", env.STORAGE_SLOT, len(existing))
	}

	payload, err := json.Marshal(students)
	if err != nil {
		log.Fatalf("Failed to encode students: %v", err)
	}
	if err := store.Write(ctx, env.STORAGE_SLOT, payload); err != nil {
		log.Fatalf("Failed to write slot: %v", err)
	}
	fmt.Printf("🎉 Slot %q now holds %d students\n", env.STORAGE_SLOT, len(students))
}

func readSlot(ctx context.Context, store database.SlotStorage, slot string) ([]model.Student, error) {
	raw, err := store.Read(ctx, slot)
	if errors.Is(err, database.ErrSlotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return services.DecodeStudents(raw)
}

// mergeStudents appends the imported records whose ids are not taken yet
func mergeStudents(existing, imported []model.Student) []model.Student {
	seen := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		seen[s.ID] = struct{}{}
	}
	out := append([]model.Student{}, existing...)
	for _, s := range imported {
		if _, dup := seen[s.ID]; dup {
			fmt.Printf("⏭️  %s already exists, skipping\n", s.ID)
			continue
		}
		out = append(out, s)
	}
	return out
}
