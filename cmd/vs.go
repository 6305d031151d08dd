package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/openai"
	"github.com/quizit-app/quizit-tools/internal/ui"
)

// runVS dispatches the vector store management subcommands.
func runVS(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: quizit vs {list-stores|create-store|list-files|upload-file|delete-file}")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	client, err := newOpenAIClient(cfg, slog.Default())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	console := ui.NewConsole(os.Stdout)

	switch args[0] {
	case "list-stores":
		return runListStores(ctx, client, console, args[1:])
	case "create-store":
		return runCreateStore(ctx, client, console, args[1:])
	case "list-files":
		return runListFiles(ctx, client, console, args[1:])
	case "upload-file":
		return runUploadFile(ctx, client, console, args[1:])
	case "delete-file":
		return runDeleteFile(ctx, client, console, args[1:])
	default:
		return fmt.Errorf("unknown vs subcommand: %s", args[0])
	}
}

func runListStores(ctx context.Context, client *openai.Client, console *ui.Console, args []string) error {
	flags := flag.NewFlagSet("vs list-stores", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	limit := flags.Int("limit", 20, "maximum stores to list")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	stores, err := client.ListVectorStores(ctx, *limit)
	if err != nil {
		return fmt.Errorf("listing vector stores: %w", err)
	}
	if len(stores) == 0 {
		console.Plain("(no vector stores)")
		return nil
	}

	console.Title("%d vector stores:", len(stores))
	for _, s := range stores {
		console.Plain("- id      : %s", s.ID)
		console.Plain("  name    : %s", s.Name)
		console.Plain("  created : %s", time.Unix(s.CreatedAt, 0).Format(time.RFC3339))
		console.Plain("  usage   : %d bytes", s.UsageBytes)
		console.Plain("")
	}
	return nil
}

func runCreateStore(ctx context.Context, client *openai.Client, console *ui.Console, args []string) error {
	flags := flag.NewFlagSet("vs create-store", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	name := flags.String("name", "", "vector store name (required)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if *name == "" {
		return errors.New("--name is required")
	}

	store, err := client.CreateVectorStore(ctx, *name)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	console.OK("created vector store")
	console.Plain("  id   : %s", store.ID)
	console.Plain("  name : %s", store.Name)
	return nil
}

func runListFiles(ctx context.Context, client *openai.Client, console *ui.Console, args []string) error {
	flags := flag.NewFlagSet("vs list-files", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	storeID := flags.String("store-id", "", "vector store id (required)")
	limit := flags.Int("limit", 50, "maximum files to list")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if *storeID == "" {
		return errors.New("--store-id is required")
	}

	files, err := client.ListVectorStoreFiles(ctx, *storeID, *limit)
	if err != nil {
		return fmt.Errorf("listing files: %w", err)
	}
	if len(files) == 0 {
		console.Plain("(no files in vector store %s)", *storeID)
		return nil
	}

	console.Title("%d files in vector store %s:", len(files), *storeID)
	for _, f := range files {
		// Name and size live on the file record, not on the attachment.
		filename := ""
		size := "N/A"
		meta, err := client.RetrieveFile(ctx, f.ID)
		if err != nil {
			console.Warn("retrieving metadata for %s: %v", f.ID, err)
		} else {
			filename = meta.Filename
			size = fmt.Sprintf("%d", meta.Bytes)
		}

		console.Plain("- file_id : %s", f.ID)
		console.Plain("  name    : %s", filename)
		console.Plain("  bytes   : %s", size)
		console.Plain("  status  : %s", f.Status)
		console.Plain("")
	}
	return nil
}

func runUploadFile(ctx context.Context, client *openai.Client, console *ui.Console, args []string) error {
	flags := flag.NewFlagSet("vs upload-file", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	storeID := flags.String("store-id", "", "target vector store id (required)")
	path := flags.String("file", "", "local file to upload (required)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if *storeID == "" {
		return errors.New("--store-id is required")
	}
	if *path == "" {
		return errors.New("--file is required")
	}
	if info, err := os.Stat(*path); err != nil || info.IsDir() {
		return fmt.Errorf("file does not exist: %s", *path)
	}

	console.Plain("uploading %s ...", *path)
	meta, err := client.UploadFile(ctx, *path)
	if err != nil {
		return fmt.Errorf("uploading file: %w", err)
	}
	console.OK("uploaded, file_id = %s", meta.ID)

	console.Plain("attaching to vector store %s ...", *storeID)
	if _, err := client.AttachFile(ctx, *storeID, meta.ID); err != nil {
		return fmt.Errorf("attaching file to vector store: %w", err)
	}
	console.OK("attached, indexing continues server-side")
	return nil
}

func runDeleteFile(ctx context.Context, client *openai.Client, console *ui.Console, args []string) error {
	flags := flag.NewFlagSet("vs delete-file", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	storeID := flags.String("store-id", "", "vector store id (required)")
	fileID := flags.String("file-id", "", "file id to detach (required)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if *storeID == "" {
		return errors.New("--store-id is required")
	}
	if *fileID == "" {
		return errors.New("--file-id is required")
	}

	if err := client.DetachFile(ctx, *storeID, *fileID); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	console.OK("removed file %s from vector store %s", *fileID, *storeID)
	return nil
}
