package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lromero/docchat/api"
	"github.com/lromero/docchat/config"
	"github.com/lromero/docchat/internal/logger"
	"github.com/lromero/docchat/session"
	"github.com/lromero/docchat/store"
	"github.com/lromero/docchat/tui"
)

var (
	// Flags
	serviceURL string
	agentType  string
	scrapeURLs bool
	autoIndex  bool
	verbose    bool
	ttlMinutes int

	rootCmd = &cobra.Command{
		Use:   "docchat",
		Short: "Chat with your indexed API documentation",
		Long:  "docchat - a terminal client for the documentation-assistant service, with session switching and restore across restarts",
		RunE:  runTUI,
	}

	queryCmd = &cobra.Command{
		Use:   "query [message]",
		Short: "Send a one-shot message without entering the TUI",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}

	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "Session management commands",
	}

	listSessionsCmd = &cobra.Command{
		Use:   "list",
		Short: "List sessions known to the service",
		RunE:  runListSessions,
	}

	newSessionCmd = &cobra.Command{
		Use:   "new",
		Short: "Create a session and make it the active one",
		RunE:  runNewSession,
	}

	clearSessionCmd = &cobra.Command{
		Use:   "clear",
		Short: "Clear the active session's stored history",
		RunE:  runClearSession,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "Documentation-assistant service URL")
	rootCmd.PersistentFlags().StringVar(&agentType, "agent-type", "", "Agent type requested for chat (e.g. react)")
	rootCmd.PersistentFlags().BoolVar(&scrapeURLs, "scrape-urls", false, "Ask the service to scrape URLs found in messages")
	rootCmd.PersistentFlags().BoolVar(&autoIndex, "auto-index", false, "Ask the service to index scraped documents")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	newSessionCmd.Flags().IntVar(&ttlMinutes, "ttl", 0, "Session TTL in minutes (0 uses the configured default)")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(listSessionsCmd)
	sessionsCmd.AddCommand(newSessionCmd)
	sessionsCmd.AddCommand(clearSessionCmd)

	viper.SetEnvPrefix("DOCCHAT")
	viper.AutomaticEnv()
	viper.BindPFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired session subsystem
type app struct {
	switcher   *session.Switcher
	dispatcher *session.Dispatcher
	buffer     *session.Buffer
}

// buildApp wires config, store, API client and the session subsystem
func buildApp() (*app, error) {
	logger.SetVerbose(verbose)

	configManager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	owner, err := configManager.EnsureOwnerID()
	if err != nil {
		return nil, err
	}

	url := serviceURL
	if url == "" {
		url = viper.GetString("service_url")
	}
	if url == "" {
		url = configManager.GetServiceURL()
	}

	client, err := api.NewClient(
		api.WithBaseURL(url),
		api.WithTimeout(time.Duration(configManager.GetTimeoutSeconds())*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	pointerStore, err := store.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create session pointer store: %w", err)
	}

	cfg := configManager.Get()
	flags := session.Flags{
		EnableURLScraping:  scrapeURLs || cfg.EnableURLScraping,
		EnableAutoIndexing: autoIndex || cfg.EnableAutoIndexing,
		AgentType:          agentType,
	}
	if flags.AgentType == "" {
		flags.AgentType = configManager.GetAgentType()
	}

	registry := session.NewRegistry(client)
	buffer := session.NewBuffer()
	switcher := session.NewSwitcher(client, registry, buffer, pointerStore, owner)
	dispatcher := session.NewDispatcher(client, switcher, buffer, flags)

	if ttlMinutes <= 0 {
		ttlMinutes = configManager.GetDefaultTTLMinutes()
	}

	return &app{switcher: switcher, dispatcher: dispatcher, buffer: buffer}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	// A failed bootstrap is not fatal to the TUI; the user can retry from a
	// NoSession state.
	if err := a.switcher.Bootstrap(context.Background()); err != nil {
		logger.Warn("could not restore previous session: %v", err)
	}

	model := tui.NewChat(a.switcher, a.dispatcher, a.buffer)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.switcher.Bootstrap(ctx); err != nil {
		return err
	}

	// No usable session on the service yet; start one.
	if _, ready := a.switcher.Active(); !ready {
		settings := api.DefaultSettings()
		if _, err := a.switcher.CreateAndSwitch(ctx, &settings, ttlMinutes); err != nil {
			return err
		}
	}

	text := args[0]
	for _, arg := range args[1:] {
		text += " " + arg
	}

	reply, err := a.dispatcher.Send(ctx, text)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotReady) {
			return fmt.Errorf("no session is ready; run 'docchat sessions new' first")
		}
		return err
	}

	fmt.Println(reply.Render())
	return nil
}

func runListSessions(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	sessions, err := a.switcher.RefreshSessions(context.Background(), "")
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("%-38s %-10s %-18s %s\n", "ID", "STATUS", "LAST USED", "COLLECTION")
	for _, s := range sessions {
		fmt.Printf("%-38s %-10s %-18s %s\n",
			s.ID, s.Status, s.LastAccessedAt.Format("2006-01-02 15:04"), s.CollectionName)
	}
	return nil
}

func runNewSession(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	settings := api.DefaultSettings()
	created, err := a.switcher.CreateAndSwitch(context.Background(), &settings, ttlMinutes)
	if err != nil {
		return err
	}

	fmt.Printf("Created session %s and made it active.\n", created.ID)
	return nil
}

func runClearSession(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.switcher.Bootstrap(ctx); err != nil {
		return err
	}

	if err := a.switcher.ClearHistory(ctx); err != nil {
		if errors.Is(err, session.ErrSessionNotReady) {
			return fmt.Errorf("no active session to clear")
		}
		return err
	}

	id, _ := a.switcher.Active()
	fmt.Printf("Cleared history for session %s.\n", id)
	return nil
}
