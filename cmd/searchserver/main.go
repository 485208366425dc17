package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/searchserver"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/tracing"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "searchserver",
		Short: "In-memory TF-IDF full-text search",
		Long: `searchserver indexes short text documents read from stdin and answers
queries against them.

Input format:
  <stop words>
  <document count>
  <id> <ACTUAL|IRRELEVANT|BANNED|REMOVED> <ratings,comma,separated|-> <text>
  ...
  <query>
  ...`,
		SilenceUsage: true,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().Bool("parallel", false, "Use the parallel execution policy")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "searchserver v%s (%s)\n", version, commit)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Index documents and print the top documents for every query",
		RunE:  runSearch,
	}
	runCmd.Flags().String("status", "ACTUAL", "Only return documents with this status")
	runCmd.Flags().Int("page-size", 2, "Documents per printed page")
	runCmd.Flags().Bool("metrics", false, "Print collected metrics after the last query")
	rootCmd.AddCommand(runCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "match",
		Short: "Index documents and match every query against every document",
		RunE:  runMatch,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "batch",
		Short: "Index documents and run all queries as one concurrent batch",
		RunE:  runBatch,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "dedup",
		Short: "Index documents and remove duplicates",
		RunE:  runDedup,
	})

	return rootCmd
}

// session is the state shared by every subcommand: the loaded config,
// the populated server and the remaining queries.
type session struct {
	cfg     *config.Config
	server  *searchserver.Server
	policy  execution.Policy
	queries []string
}

func openSession(cmd *cobra.Command) (*session, error) {
	configPath, _ := cmd.Flags().GetString("config")
	parallel, _ := cmd.Flags().GetBool("parallel")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	input, err := readCorpus(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	if input.stopWords != "" {
		cfg.Search.StopWords = input.stopWords
	}
	server, err := searchserver.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating search server: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, d := range input.docs {
		if err := server.AddDocument(d.id, d.text, d.status, d.ratings); err != nil {
			printError(out, fmt.Sprintf("Document %d (line %d)", d.id, d.line), err)
		}
	}

	policy := execution.Sequential
	if parallel || cfg.Search.Parallel {
		policy = server.ParallelPolicy()
	}
	slog.Info("corpus loaded",
		"documents", server.DocumentCount(),
		"queries", len(input.queries),
		"policy", policy.String(),
	)
	return &session{
		cfg:     cfg,
		server:  server,
		policy:  policy,
		queries: input.queries,
	}, nil
}

// policyFinder runs request-queue searches under the session's policy.
type policyFinder struct {
	server *searchserver.Server
	policy execution.Policy
}

func (f policyFinder) FindTopDocumentsFunc(rawQuery string, pred searchserver.Predicate) ([]searchserver.Document, error) {
	return f.server.FindTopDocumentsPolicy(f.policy, rawQuery, pred)
}

func runSearch(cmd *cobra.Command, args []string) error {
	statusName, _ := cmd.Flags().GetString("status")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	showMetrics, _ := cmd.Flags().GetBool("metrics")

	status, ok := index.ParseStatus(statusName)
	if !ok {
		return fmt.Errorf("unknown status %q", statusName)
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	queue := analytics.NewRequestQueue(
		policyFinder{server: s.server, policy: s.policy},
		s.cfg.RequestLog.Window,
		s.server.Metrics(),
	)

	for _, q := range s.queries {
		requestID := uuid.NewString()
		ctx, span := tracing.StartSpan(logger.WithRequestID(context.Background(), requestID), "query", requestID)
		docs, err := queue.AddFindRequestStatus(ctx, q, status)
		span.SetAttr("query", q)
		span.SetAttr("results", len(docs))
		span.SetAttr("policy", s.policy.String())
		span.End()
		span.Log(ctx, slog.Default())

		fmt.Fprintf(out, "Results for query: %s\n", q)
		if err != nil {
			logger.FromContext(ctx).Warn("query failed", "query", q, "error", err)
			printError(out, "Search", err)
			continue
		}
		if err := printPages(out, docs, pageSize); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Requests without results: %d\n", queue.NoResultRequests())

	if showMetrics && s.server.Metrics() != nil {
		return printMetrics(out, s.server.Metrics())
	}
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, q := range s.queries {
		fmt.Fprintf(out, "Matching documents for query: %s\n", q)
		for id := range s.server.Documents() {
			m, err := s.server.MatchDocumentPolicy(s.policy, q, id)
			if err != nil {
				printError(out, "Match", err)
				break
			}
			printMatch(out, id, m)
		}
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	batchID := uuid.NewString()
	ctx, span := tracing.StartSpan(logger.WithRequestID(context.Background(), batchID), "batch", batchID)
	docs, err := searchserver.ProcessQueriesJoined(s.server, s.queries)
	span.SetAttr("queries", len(s.queries))
	span.SetAttr("results", len(docs))
	span.End()
	span.Log(ctx, slog.Default())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, d := range docs {
		printDocument(out, d)
	}
	return nil
}

func runDedup(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	before := s.server.DocumentCount()
	for _, id := range s.server.RemoveDuplicates() {
		fmt.Fprintf(out, "Found duplicate document id %d\n", id)
	}
	fmt.Fprintf(out, "Before duplicates removed: %d\n", before)
	fmt.Fprintf(out, "After duplicates removed: %d\n", s.server.DocumentCount())
	return nil
}
