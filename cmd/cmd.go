// Package cmd provides the quizit CLI commands.
//
// Commands:
//   - ask: interactive Q&A against a vector store
//   - summary: extract the knowledge points of a textbook chapter
//   - vs: manage vector stores and their files
//   - gen-image: generate one budget-sized JPEG from a description
//   - deck-graphs: generate and upload knowledge graphs for a deck
//   - map-refs: pick and upload atlas references for a geography deck
//   - quiz-images: generate and upload question images for a quiz template
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the quizit CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "ask":
		return runAsk(os.Args[2:])
	case "summary":
		return runSummary(os.Args[2:])
	case "vs":
		return runVS(os.Args[2:])
	case "gen-image":
		return runGenImage(os.Args[2:])
	case "deck-graphs":
		return runDeckGraphs(os.Args[2:])
	case "map-refs":
		return runMapRefs(os.Args[2:])
	case "quiz-images":
		return runQuizImages(os.Args[2:])
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("quizit - flashcard content pipeline tools")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  quizit ask --store-id vs_xxx             Interactive Q&A against a vector store")
	fmt.Println("  quizit summary --store-id vs_xxx --keyword 第二章")
	fmt.Println("                                           Extract chapter knowledge points as JSON")
	fmt.Println("  quizit vs <subcommand>                   Manage vector stores (see below)")
	fmt.Println("  quizit gen-image [--subject P] DESC OUT  Generate one JPEG image")
	fmt.Println("  quizit deck-graphs --title TITLE [--store-id vs_xxx]")
	fmt.Println("                                           Generate knowledge graphs for a deck")
	fmt.Println("  quizit map-refs --title TITLE            Pick atlas references for a geography deck")
	fmt.Println("  quizit quiz-images [--doit --subject P] TITLE")
	fmt.Println("                                           Generate question images for a quiz template")
	fmt.Println("  quizit --version                         Show version information")
	fmt.Println("  quizit --help                            Show this help")
	fmt.Println()
	fmt.Println("Vector store subcommands:")
	fmt.Println("  quizit vs list-stores [--limit N]")
	fmt.Println("  quizit vs create-store --name NAME")
	fmt.Println("  quizit vs list-files --store-id vs_xxx [--limit N]")
	fmt.Println("  quizit vs upload-file --store-id vs_xxx --file PATH")
	fmt.Println("  quizit vs delete-file --store-id vs_xxx --file-id file_yyy")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  OPENAI_API_KEY       Responses API key (ask, summary, vs, deck-graphs, map-refs)")
	fmt.Println("  GOOGLE_API_KEY       Gemini API key (gen-image, quiz-images --doit)")
	fmt.Println("  SUPABASE_URL         Backend project URL (deck-graphs, map-refs, quiz-images)")
	fmt.Println("  SUPABASE_ANON_KEY    Backend anon key")
	fmt.Println("  DEBUG                Optional: enable debug logging")
	fmt.Println()
	fmt.Println("All variables may also live in .env.local in the working directory.")
}
