// Command award-admin is the administrative entry point for the award
// tracker data files: it seeds test students, adds staff accounts and
// checks that the data files load cleanly.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/award-tracker/internal/models"
	"github.com/noah-isme/award-tracker/internal/service"
	"github.com/noah-isme/award-tracker/internal/store"
	"github.com/noah-isme/award-tracker/pkg/config"
	"github.com/noah-isme/award-tracker/pkg/logger"
	"github.com/noah-isme/award-tracker/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if len(os.Args) < 2 {
		usage()
	}

	st := store.New(logr)
	hasher := password.NewHasher(cfg.Hash.Iterations)

	switch os.Args[1] {
	case "init":
		runInit(cfg, st)
	case "seed":
		runSeed(cfg, st, hasher, logr, os.Args[2:])
	case "addstaff":
		runAddStaff(cfg, st, hasher, os.Args[2:])
	case "check":
		runCheck(cfg, st)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: award-admin <command> [flags]

commands:
  init      create an empty set of data files
  seed      populate the student tables with random test accounts
  addstaff  add a staff account
  check     load every data file and report row counts`)
	os.Exit(2)
}

func runInit(cfg *config.Config, st *store.Store) {
	if err := st.SaveAll(cfg.Data.Dir, cfg.Data.BackupSuffix); err != nil {
		log.Fatalf("init failed: %v", err)
	}
	fmt.Printf("created empty data files in %s\n", cfg.Data.Dir)
}

func runSeed(cfg *config.Config, st *store.Store, hasher *password.Hasher, logr *zap.Logger, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	count := fs.Int("count", 10, "number of test students to generate")
	centreID := fs.Int("centre", 68362, "centre identifier for generated students")
	pass := fs.String("password", "Password1", "password shared by generated accounts")
	_ = fs.Parse(args)

	if err := st.LoadAll(cfg.Data.Dir, cfg.Data.BackupSuffix); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	enrolments := service.NewEnrolmentService(st, hasher, nil, logr)
	levels := models.AwardLevels()
	taken := make(map[string]bool)

	for i := 0; i < *count; i++ {
		username := randomUsername(5, taken)
		taken[username] = true

		_, err := enrolments.Provision(service.ProvisionInput{
			Username:   username,
			Password:   *pass,
			CentreID:   *centreID,
			AwardLevel: levels[rand.Intn(len(levels))],
			YearGroup:  7 + rand.Intn(7),
		})
		if err != nil {
			log.Fatalf("seed failed on student %d: %v", i+1, err)
		}
		fmt.Printf("added student %q\n", username)
	}

	if err := st.SaveAll(cfg.Data.Dir, cfg.Data.BackupSuffix); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	fmt.Printf("seeded %d students (all using password %q)\n", *count, *pass)
}

func runAddStaff(cfg *config.Config, st *store.Store, hasher *password.Hasher, args []string) {
	fs := flag.NewFlagSet("addstaff", flag.ExitOnError)
	username := fs.String("username", "", "staff username")
	fullname := fs.String("fullname", "", "staff display name")
	pass := fs.String("password", "", "staff password")
	_ = fs.Parse(args)

	if report := password.CheckStrength(*pass); !report.OK() {
		for _, msg := range report.Failures() {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}

	if err := st.LoadAll(cfg.Data.Dir, cfg.Data.BackupSuffix); err != nil {
		log.Fatalf("addstaff failed: %v", err)
	}

	hash, err := hasher.Hash(*pass)
	if err != nil {
		log.Fatalf("addstaff failed: %v", err)
	}
	if err := st.Staff.Insert(models.Staff{
		Username:     *username,
		PasswordHash: hash,
		FullName:     *fullname,
	}); err != nil {
		log.Fatalf("addstaff failed: %v", err)
	}

	if err := st.SaveAll(cfg.Data.Dir, cfg.Data.BackupSuffix); err != nil {
		log.Fatalf("addstaff failed: %v", err)
	}
	fmt.Printf("added staff account %q\n", *username)
}

func runCheck(cfg *config.Config, st *store.Store) {
	if err := st.LoadAll(cfg.Data.Dir, cfg.Data.BackupSuffix); err != nil {
		log.Fatalf("check failed: %v", err)
	}
	counts := st.RowCounts()
	for _, name := range store.TableNames() {
		fmt.Printf("%-18s %d row(s)\n", name, counts[name])
	}
}

func randomUsername(length int, taken map[string]bool) string {
	gen := func() string {
		b := make([]byte, length)
		for i := range b {
			b[i] = byte('a' + rand.Intn(26))
		}
		return string(b)
	}
	name := gen()
	for taken[name] {
		name = gen()
	}
	return name
}
