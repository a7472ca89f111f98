package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pet-clinic-client/internal/adapters/storage/memory"
	pg "pet-clinic-client/internal/adapters/storage/postgres"
	"pet-clinic-client/internal/domain/account"
	"pet-clinic-client/internal/domain/customers"
	"pet-clinic-client/internal/domain/pets"
	"pet-clinic-client/internal/domain/records"
	"pet-clinic-client/internal/gateway"
	"pet-clinic-client/internal/platform/httpclient"
	"pet-clinic-client/internal/platform/logger"
	"pet-clinic-client/internal/session"
)

// petclinicctl ejercita el cliente completo contra un backend real o
// el stub. Env:
// - API_BASE_URL (default http://localhost:8080)
// - API_TIMEOUT  (default 10s)
// - DB_DSN + DEVICE_ID: sesión durable en Postgres (si no, en memoria
//   => login y comando van en la misma invocación o vía PETCLINIC_TOKEN)
// - PETCLINIC_TOKEN: token explícito, pisa la sesión guardada
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log := logger.NewFromEnv()

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	timeout := httpclient.DefaultTimeout
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		fatalf("invalid API_BASE_URL: %v", err)
	}

	storage := buildStorage(log)

	var store *session.Store
	gw := gateway.New(hc, gateway.TokenFunc(func() string {
		if tok := os.Getenv("PETCLINIC_TOKEN"); tok != "" {
			return tok
		}
		if store == nil {
			return ""
		}
		return store.Token()
	}), log)

	acct := account.NewService(gw)
	store = session.NewStore(acct, storage, log)

	ctx := context.Background()
	store.Restore(ctx)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "register":
		runRegister(ctx, acct, args)
	case "login":
		runLogin(ctx, store, args)
	case "logout":
		store.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		runWhoami(store)
	case "pets":
		runPets(ctx, pets.NewService(gw), args)
	case "customers":
		runCustomers(ctx, customers.NewService(gw), args)
	case "records":
		runRecords(ctx, records.NewService(gw), args)
	default:
		usage()
		os.Exit(2)
	}
}

func buildStorage(log logger.Logger) session.Storage {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return memory.NewSessionStore()
	}

	db, err := pg.Open(dsn)
	if err != nil {
		fatalf("open postgres: %v", err)
	}
	deviceID := os.Getenv("DEVICE_ID")
	if deviceID == "" {
		deviceID, _ = os.Hostname()
	}
	st, err := pg.NewSessionStore(db, deviceID)
	if err != nil {
		fatalf("session store: %v", err)
	}
	log.Debug("using durable session storage", map[string]any{"device_id": deviceID})
	return st
}

func runRegister(ctx context.Context, acct *account.Service, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	u, msg, err := acct.Register(ctx, *name, *email, *password)
	if err != nil {
		fatalErr(err)
	}
	fmt.Printf("%s (user id %d)\n", msg, u.ID)
}

func runLogin(ctx context.Context, store *session.Store, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	u, err := store.Login(ctx, *email, *password)
	if err != nil {
		fatalErr(err)
	}
	fmt.Printf("logged in as %s <%s>\ntoken: %s\n", u.Name, u.Email, store.Token())
}

func runWhoami(store *session.Store) {
	snap, ok := store.Current()
	if !ok {
		fmt.Println("not logged in")
		return
	}
	printJSON(snap.User)
}

func runPets(ctx context.Context, svc *pets.Service, args []string) {
	if len(args) == 0 {
		fatalf("usage: petclinicctl pets list|get|create|delete ...")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		out, err := svc.List(ctx)
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "get":
		out, err := svc.GetByID(ctx, argID(rest))
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "create":
		fs := flag.NewFlagSet("pets create", flag.ExitOnError)
		name := fs.String("name", "", "pet name")
		species := fs.String("species", "", "species")
		owner := fs.Int("customer", 0, "customer id")
		_ = fs.Parse(rest)

		out, err := svc.Create(ctx, pets.Pet{Name: *name, Species: *species, CustomerID: *owner})
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "delete":
		if err := svc.Delete(ctx, argID(rest)); err != nil {
			fatalErr(err)
		}
		fmt.Println("deleted")
	default:
		fatalf("unknown pets subcommand %q", sub)
	}
}

func runCustomers(ctx context.Context, svc *customers.Service, args []string) {
	if len(args) == 0 {
		fatalf("usage: petclinicctl customers list|get|create|delete ...")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		out, err := svc.List(ctx)
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "get":
		out, err := svc.GetByID(ctx, argID(rest))
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "create":
		fs := flag.NewFlagSet("customers create", flag.ExitOnError)
		name := fs.String("name", "", "customer name")
		phone := fs.String("phone", "", "phone")
		_ = fs.Parse(rest)

		out, err := svc.Create(ctx, customers.Customer{Name: *name, Phone: *phone})
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "delete":
		if err := svc.Delete(ctx, argID(rest)); err != nil {
			fatalErr(err)
		}
		fmt.Println("deleted")
	default:
		fatalf("unknown customers subcommand %q", sub)
	}
}

func runRecords(ctx context.Context, svc *records.Service, args []string) {
	if len(args) == 0 {
		fatalf("usage: petclinicctl records list|get|create|delete ...")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		out, err := svc.List(ctx)
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "get":
		out, err := svc.GetByID(ctx, argID(rest))
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "create":
		fs := flag.NewFlagSet("records create", flag.ExitOnError)
		pet := fs.Int("pet", 0, "pet id")
		owner := fs.Int("customer", 0, "customer id")
		date := fs.String("date", time.Now().Format(time.RFC3339), "record date (ISO-8601)")
		diagnosis := fs.String("diagnosis", "", "diagnosis")
		service := fs.String("service", "", "service performed")
		clinic := fs.String("clinic", "", "clinic name")
		notes := fs.String("notes", "", "free-text notes")
		_ = fs.Parse(rest)

		out, err := svc.Create(ctx, records.MedicalRecord{
			PetID:      *pet,
			CustomerID: *owner,
			Date:       *date,
			Diagnosis:  *diagnosis,
			Service:    *service,
			Clinic:     *clinic,
			Notes:      *notes,
		})
		if err != nil {
			fatalErr(err)
		}
		printJSON(out)
	case "delete":
		if err := svc.Delete(ctx, argID(rest)); err != nil {
			fatalErr(err)
		}
		fmt.Println("deleted")
	default:
		fatalf("unknown records subcommand %q", sub)
	}
}

func argID(args []string) int {
	if len(args) == 0 {
		fatalf("missing id argument")
	}
	id, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || id <= 0 {
		fatalf("invalid id %q", args[0])
	}
	return id
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("encode: %v", err)
	}
	fmt.Println(string(b))
}

func fatalErr(err error) {
	// El mensaje ya viene normalizado por el gateway, listo para mostrar.
	fatalf("%s", gateway.MessageOf(err))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: petclinicctl <command> [flags]

commands:
  register  -name -email -password
  login     -email -password
  logout
  whoami
  pets      list | get <id> | create -name -species -customer | delete <id>
  customers list | get <id> | create -name -phone | delete <id>
  records   list | get <id> | create -pet -customer -date -diagnosis -service -clinic -notes | delete <id>`)
}
