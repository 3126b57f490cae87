package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NicoJuicy/apireview.net/internal/cache"
	"github.com/NicoJuicy/apireview.net/internal/config"
	"github.com/NicoJuicy/apireview.net/internal/directory"
	"github.com/NicoJuicy/apireview.net/internal/mail"
	"github.com/NicoJuicy/apireview.net/internal/notes"
	"github.com/NicoJuicy/apireview.net/internal/review"
	"github.com/NicoJuicy/apireview.net/internal/tracker"
	"github.com/NicoJuicy/apireview.net/internal/video"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "review-notes",
		Short: "Aggregate API review feedback and publish it as notes",
		Long: `review-notes reconciles review decisions from issue-tracker events with
livestream recordings and publishes the resulting summary: a notes file
committed to the notes repository, video links on the feedback comments,
and a notification email to the group's mailing list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Config file (default review-notes.yaml in . or ~/.config/review-notes)")
	root.PersistentFlags().String("group", "", "Repository group to summarize")

	root.AddCommand(newPublishCmd(), newPreviewCmd())

	return root
}

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build a summary and publish it",
	}
	cmd.AddCommand(newVideoCmd(false), newWindowCmd(false))
	return cmd
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Build a summary and print it without publishing",
	}
	cmd.AddCommand(newVideoCmd(true), newWindowCmd(true))
	return cmd
}

func newVideoCmd(preview bool) *cobra.Command {
	return &cobra.Command{
		Use:   "video <video-id>",
		Short: "Summarize the review session recorded in a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, group, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			summary, err := app.collector.CollectVideo(cmd.Context(), group, args[0])
			if err != nil {
				return err
			}
			if summary == nil {
				return fmt.Errorf("video %q not found", args[0])
			}

			return app.finish(cmd, summary, preview)
		},
	}
}

func newWindowCmd(preview bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Summarize review decisions in an explicit time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			since, err := parseDateFlag(cmd, "since", time.Now().AddDate(0, 0, -7))
			if err != nil {
				return err
			}
			until, err := parseDateFlag(cmd, "until", time.Now())
			if err != nil {
				return err
			}
			if since.After(until) {
				return fmt.Errorf("--since cannot be after --until")
			}

			app, group, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			summary, err := app.collector.CollectWindow(cmd.Context(), group, since, until)
			if err != nil {
				return err
			}

			return app.finish(cmd, summary, preview)
		},
	}
	cmd.Flags().String("since", "", "Window start in YYYY-MM-DD format (defaults to 7 days ago)")
	cmd.Flags().String("until", "", "Window end in YYYY-MM-DD format (defaults to now)")
	return cmd
}

func parseDateFlag(cmd *cobra.Command, name string, fallback time.Time) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date, use YYYY-MM-DD: %w", name, err)
	}
	return parsed, nil
}

// app holds the wired collaborators for one command invocation.
type app struct {
	cfg       config.Config
	cache     cache.Cache
	collector *review.Collector
	publisher *notes.Publisher
}

func setup(cmd *cobra.Command) (*app, review.Group, error) {
	configFile, _ := cmd.Flags().GetString("config")
	groupName, _ := cmd.Flags().GetString("group")

	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, review.Group{}, err
	}

	groups := groupsFromConfig(cfg)
	if groupName == "" {
		return nil, review.Group{}, fmt.Errorf("--group is required")
	}
	group, ok := groups[groupName]
	if !ok {
		return nil, review.Group{}, fmt.Errorf("group %q is not configured", groupName)
	}

	cacheImpl, err := cache.NewDefaultCache()
	if err != nil {
		return nil, review.Group{}, fmt.Errorf("failed to create cache: %w", err)
	}

	trackerClient := tracker.NewCachedClient(cfg.GitHub.Token, cacheImpl)

	videoClient, err := video.NewCachedClient(cmd.Context(), cfg.YouTube.APIKey, cacheImpl)
	if err != nil {
		cacheImpl.Close()
		return nil, review.Group{}, err
	}

	dir := directoryFromConfig(cfg)
	labels := review.Labels{
		Ready:     cfg.Labels.Ready,
		Blocking:  cfg.Labels.Blocking,
		Approved:  cfg.Labels.Approved,
		NeedsWork: cfg.Labels.NeedsWork,
	}

	var mailClient notes.MailClient
	if cfg.SendGrid.APIKey != "" {
		mailClient = mail.NewClient(cfg.SendGrid.APIKey)
	}

	return &app{
		cfg:       cfg,
		cache:     cacheImpl,
		collector: review.NewCollector(trackerClient, videoClient, dir, labels),
		publisher: notes.NewPublisher(trackerClient, mailClient, groups, notes.PublisherConfig{
			NotesOwner:  cfg.Notes.Owner,
			NotesRepo:   cfg.Notes.Repo,
			FromAddress: cfg.SendGrid.FromAddress,
			ReplyTo:     cfg.SendGrid.ReplyTo,
		}),
	}, group, nil
}

func (a *app) Close() {
	a.cache.Close()
}

// finish either prints the rendered summary or publishes it.
func (a *app) finish(cmd *cobra.Command, summary *review.Summary, preview bool) error {
	if preview {
		fmt.Fprint(cmd.OutOrStdout(), notes.RenderMarkdown(summary))
		return nil
	}

	result, err := a.publisher.Publish(cmd.Context(), summary)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Published review notes: %s\n", result.URL)
	return nil
}

func loadConfig(configFile string) (config.Config, error) {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "review-notes"))
	}

	cfg, err := config.Load(config.LoaderOptions{
		ConfigFile:  configFile,
		ConfigPaths: paths,
	})
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func groupsFromConfig(cfg config.Config) map[string]review.Group {
	groups := make(map[string]review.Group, len(cfg.Groups))
	for name, gc := range cfg.Groups {
		group := review.Group{
			Name:        name,
			Suffix:      gc.Suffix,
			MailingList: gc.MailingList,
			AreaOwners:  gc.AreaOwners,
		}
		for _, repo := range gc.Repos {
			parts := strings.SplitN(repo, "/", 2)
			if len(parts) != 2 {
				continue
			}
			group.Repos = append(group.Repos, review.Repo{Owner: parts[0], Name: parts[1]})
		}
		groups[name] = group
	}
	return groups
}

func directoryFromConfig(cfg config.Config) directory.Directory {
	var people []directory.Person
	for login, pc := range cfg.People {
		people = append(people, directory.Person{Login: login, Name: pc.Name, Email: pc.Email})
	}
	return directory.NewStatic(people)
}
