package main

//// Small CLI tool for day to day moderation: list pending signups,
//// approve or reject them, and check the recent audit trail.

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mirojov/clubhub/client"
)

func init() {
	log.SetOutput(os.Stdout)
}

func usage() {
	fmt.Println("usage: admintool [flags] <command> [args]")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  pending              list users waiting for moderation")
	fmt.Println("  approve <user-id>    approve a pending user")
	fmt.Println("  reject <user-id>     reject a pending user")
	fmt.Println("  reset-token <user-id> issue a password reset token")
	fmt.Println("  audit                show recent moderation actions")
	fmt.Println()
	flag.PrintDefaults()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL := flag.String("base", "", "API base URL (overrides CLUBHUB_ADMIN_API_BASE)")
	username := flag.String("username", os.Getenv("CLUBHUB_ADMIN_USERNAME"), "admin username")
	password := flag.String("password", os.Getenv("CLUBHUB_ADMIN_PASSWORD"), "admin password")
	note := flag.String("note", "", "moderation note attached to approve / reject")
	page := flag.Int("page", 1, "page number for listings")
	pageSize := flag.Int("page-size", 20, "page size for listings")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	resolvedBase := *baseURL
	if resolvedBase == "" {
		cfg, err := client.LoadEnvConfig(ctx)
		if err != nil {
			log.Fatalf("Failed to load env config: %v", err)
		}
		resolvedBase = client.ResolveBaseURL("admin", cfg.PublicAPIBase, cfg.AdminAPIBase)
	}
	if resolvedBase == "" {
		log.Fatalf("No API base URL; set -base or CLUBHUB_ADMIN_API_BASE")
	}

	c := client.New(resolvedBase, nil)

	if *username == "" || *password == "" {
		log.Fatalf("Missing credentials; set -username/-password or CLUBHUB_ADMIN_USERNAME/CLUBHUB_ADMIN_PASSWORD")
	}
	loggedInAs, err := c.Login(ctx, *username, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s", loggedInAs)
	defer func() {
		if err := c.Logout(ctx); err != nil {
			log.Printf("Logout failed: %v", err)
		}
	}()

	switch cmd := flag.Arg(0); cmd {
	case "pending":
		listPending(ctx, c, *page, *pageSize)
	case "approve":
		moderate(ctx, c, flag.Arg(1), "approved", *note)
	case "reject":
		moderate(ctx, c, flag.Arg(1), "rejected", *note)
	case "reset-token":
		issueResetToken(ctx, c, flag.Arg(1))
	case "audit":
		listAudit(ctx, c, *page, *pageSize)
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func listPending(ctx context.Context, c *client.Client, page, pageSize int) {
	usersPage, err := c.ListUsers(ctx, client.ListUsersParams{
		Status:   "pending",
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		log.Fatalf("Failed to list pending users: %v", err)
	}

	log.Printf("%d pending user(s), page %d/%d:", usersPage.Total, usersPage.Page, usersPage.Pages)
	for _, user := range usersPage.Items {
		contact := user.MobileNumber
		if user.Email != "" {
			contact += " / " + user.Email
		}
		log.Printf("  %s  %-25s %s  (signed up %s)", user.ID, user.Name, contact, user.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func moderate(ctx context.Context, c *client.Client, userID, status, note string) {
	if userID == "" {
		log.Fatalf("Missing user id")
	}

	user, err := c.UpdateUserStatus(ctx, userID, status, note)
	if err != nil {
		log.Fatalf("Failed to set status %s for user %s: %v", status, userID, err)
	}
	log.Printf("User %s (%s) is now %s", user.ID, user.Name, user.Status)
}

func issueResetToken(ctx context.Context, c *client.Client, userID string) {
	if userID == "" {
		log.Fatalf("Missing user id")
	}

	token, err := c.IssueResetToken(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to issue reset token for user %s: %v", userID, err)
	}
	log.Printf("Reset token for user %s (valid until %s):", userID, token.ExpiresAt.Format("2006-01-02 15:04"))
	fmt.Println(token.Token)
}

func listAudit(ctx context.Context, c *client.Client, page, pageSize int) {
	auditPage, err := c.ListAuditEntries(ctx, page, pageSize)
	if err != nil {
		log.Fatalf("Failed to list audit entries: %v", err)
	}

	log.Printf("%d audit entr(ies), page %d/%d:", auditPage.Total, auditPage.Page, auditPage.Pages)
	for _, entry := range auditPage.Items {
		line := fmt.Sprintf("  [%s] %s %s user=%s", entry.CreatedAt.Format("2006-01-02 15:04"), entry.Actor, entry.Action, entry.UserID)
		if entry.FromStatus != "" || entry.ToStatus != "" {
			line += fmt.Sprintf(" (%s -> %s)", entry.FromStatus, entry.ToStatus)
		}
		log.Print(line)
	}
}
