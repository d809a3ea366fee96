package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"text/tabwriter"

	"github.com/common-nighthawk/go-figure"

	issuedesk "github.com/issuedesk/issuedesk-go"
	"github.com/issuedesk/issuedesk-go/issues"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := issuedesk.NewConfig()
	client, err := issuedesk.New(cfg, issuedesk.WithSessionExpiredHook(func() {
		fmt.Println("Session expired, please log in again.")
	}))
	if err != nil {
		return err
	}

	if len(os.Args) < 2 {
		usage(cfg.GetAppName())
		return nil
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "login":
		return loginCommand(ctx, client)
	case "whoami":
		return whoamiCommand(client)
	case "issues":
		return issuesCommand(ctx, client)
	case "mine":
		return mineCommand(ctx, client)
	case "logout":
		client.Session.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	default:
		usage(cfg.GetAppName())
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

func usage(appName string) {
	displayAppname(appName)
	fmt.Println("Usage: issuedesk <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login -u <username> -p <password>   Authenticate against the backend")
	fmt.Println("  whoami                              Show the current session identity")
	fmt.Println("  issues [-status s] [-priority p]    List issues")
	fmt.Println("  mine                                List issues assigned to you")
	fmt.Println("  logout                              End the session")
}

func loginCommand(ctx context.Context, client *issuedesk.Client) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	username := flags.String("u", "", "username or email")
	password := flags.String("p", "", "password")
	_ = flags.Parse(os.Args[2:])

	if *username == "" || *password == "" {
		return errors.New("both -u and -p are required")
	}

	result := client.Session.Login(ctx, *username, *password)
	if !result.Success {
		return errors.New(result.Error)
	}

	fmt.Printf("Logged in as %s", result.User.DisplayName())
	if result.IsAdmin {
		fmt.Print(" (admin)")
	}
	fmt.Println()
	return nil
}

func whoamiCommand(client *issuedesk.Client) error {
	if !client.Session.IsAuthenticated() {
		return errors.New("not logged in")
	}

	user := client.Session.CurrentUser()
	fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
	if client.Session.IsAdmin() {
		fmt.Println("Role: administrator")
	}
	return nil
}

func issuesCommand(ctx context.Context, client *issuedesk.Client) error {
	flags := flag.NewFlagSet("issues", flag.ExitOnError)
	status := flags.String("status", "", "filter by status")
	priority := flags.String("priority", "", "filter by priority")
	_ = flags.Parse(os.Args[2:])

	list, err := client.Issues.List(ctx, issues.Filter{
		Status:   issues.Status(*status),
		Priority: issues.Priority(*priority),
	})
	if err != nil {
		return err
	}
	printIssues(list)
	return nil
}

func mineCommand(ctx context.Context, client *issuedesk.Client) error {
	list, err := client.Issues.Mine(ctx)
	if err != nil {
		return err
	}
	printIssues(list)
	return nil
}

func printIssues(list []issues.Issue) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSTATUS\tPRIORITY\tTITLE")
	for _, issue := range list {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", issue.ID, issue.Status, issue.Priority, issue.Title)
	}
	_ = writer.Flush()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
