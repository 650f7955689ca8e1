package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"ai-interview-voice-client/internal/api"
	"ai-interview-voice-client/internal/app"
	"ai-interview-voice-client/internal/config"
	"ai-interview-voice-client/internal/events"
	"ai-interview-voice-client/internal/interview"
	"ai-interview-voice-client/internal/observability"
	"ai-interview-voice-client/internal/speech"
	googlespeech "ai-interview-voice-client/internal/speech/google"
	mockspeech "ai-interview-voice-client/internal/speech/mock"
	"ai-interview-voice-client/internal/transcript"
)

func main() {
	cfg := config.Load()

	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	defer application.Shutdown()

	var obs *observability.Server
	if cfg.Service.MetricsEnabled {
		obs = observability.NewServer(cfg.Service.MetricsAddr)
		obs.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = obs.Shutdown(ctx)
		}()
	}

	// Kafka publisher with separate topics for partial and final transcripts
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicPartial: cfg.Kafka.TopicPartial,
		TopicFinal:   cfg.Kafka.TopicFinal,
		Source:       cfg.Kafka.Principal,
	})
	defer publisher.Close()
	sink := events.NewTranscriptSink(publisher)

	capability, cleanup, err := buildCapability(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Recognition.Provider).Msg("Failed to create recognition capability")
	}
	if cleanup != nil {
		defer cleanup()
	}

	engine := transcript.NewEngine(capability)
	engine.SetSink(sink)

	client := api.NewClient(cfg.Backend.BaseURL)
	controller := interview.NewController(client)

	if obs != nil {
		obs.SetReady(true)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Signal received, ending session")
		_ = engine.Stop()
		controller.EndInterview(context.Background())
		os.Exit(0)
	}()

	runShell(controller, engine, sink, client)
}

// buildCapability selects the recognition provider. A nil capability is
// valid: the engine then reports recognition as unsupported.
func buildCapability(cfg *config.Configuration) (speech.Capability, func(), error) {
	switch cfg.Recognition.Provider {
	case "mock":
		return mockspeech.New(), nil, nil
	case "google":
		source, closeSource, err := openAudioSource(cfg.Recognition.AudioSource)
		if err != nil {
			return nil, nil, err
		}
		capability, err := googlespeech.New(context.Background(), googlespeech.Config{
			LanguageCode:   cfg.Recognition.LanguageCode,
			SampleRateHz:   cfg.Recognition.SampleRateHz,
			InterimResults: cfg.Recognition.InterimResults,
			AudioSource:    source,
		})
		if err != nil {
			if closeSource != nil {
				closeSource()
			}
			return nil, nil, err
		}
		return capability, closeSource, nil
	case "none":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown recognition provider %q", cfg.Recognition.Provider)
	}
}

func openAudioSource(source string) (io.Reader, func(), error) {
	if source == "-" {
		return os.Stdin, nil, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// runShell drives the interview from an interactive prompt.
func runShell(controller *interview.Controller, engine *transcript.Engine, sink *events.TranscriptSink, client *api.Client) {
	fmt.Println("AI mock interview client. Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		printPrompt(controller, engine)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		ctx := context.Background()
		switch cmd {
		case "help":
			printHelp()
		case "start":
			if arg == "" {
				fmt.Println("usage: start <topic>")
				continue
			}
			if err := controller.StartInterview(ctx, arg, false); err != nil {
				fmt.Println("error:", err)
				continue
			}
			snap := controller.Snapshot()
			sink.Bind(snap.Session.ThreadID, snap.Session.Topic)
			printQuestion(snap)
		case "record":
			if err := engine.Start(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Recording. Use 'stop' to finish your answer.")
		case "stop":
			if err := engine.Stop(); err != nil {
				fmt.Println("error:", err)
			}
		case "show":
			printTranscript(engine)
		case "submit":
			_ = engine.Stop()
			text := engine.Snapshot().FinalizedText
			if err := controller.SubmitAnswer(ctx, text); err != nil {
				fmt.Println("error:", err)
				continue
			}
			engine.Reset()
			printQuestion(controller.Snapshot())
		case "approve":
			if err := controller.ApproveAssessment(ctx, interview.ActionApprove); err != nil {
				fmt.Println("error:", err)
				continue
			}
			printQuestion(controller.Snapshot())
		case "report":
			report, err := controller.GetAssessment(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printReport(report)
		case "materials":
			list, err := client.ListMaterials(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if list.Count == 0 {
				fmt.Println("No materials uploaded.")
			}
			for _, m := range list.Materials {
				fmt.Printf("  %s (%s)\n", m.Filename, m.MaterialID)
			}
		case "upload":
			if arg == "" {
				fmt.Println("usage: upload <path>")
				continue
			}
			uploadMaterial(ctx, client, arg)
		case "end":
			_ = engine.Stop()
			if _, err := controller.GetAssessment(ctx); err == nil {
				printReport(controller.Snapshot().Report)
			}
			controller.EndInterview(ctx)
			sink.Unbind()
			fmt.Println("Interview ended.")
		case "quit", "exit":
			_ = engine.Stop()
			controller.EndInterview(ctx)
			return
		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func uploadMaterial(ctx context.Context, client *api.Client, path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer f.Close()

	res, err := client.UploadMaterial(ctx, filepath.Base(path), f)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("Uploaded %s (%d chunks indexed)\n", res.Filename, res.ChunksCreated)
}

func printPrompt(controller *interview.Controller, engine *transcript.Engine) {
	status := controller.Snapshot().Status.Overlay(engine.Snapshot().Active)
	fmt.Printf("[%s] > ", status)
}

func printQuestion(snap interview.Snapshot) {
	if snap.Status == interview.StatusComplete {
		fmt.Println("Interview complete. Use 'report' for your assessment.")
		return
	}
	if snap.Question == nil {
		return
	}
	label := fmt.Sprintf("Question %d", snap.Question.Ordinal)
	if snap.Question.FollowUp {
		label = fmt.Sprintf("Follow-up to question %d", snap.Question.Ordinal)
	}
	fmt.Printf("\n%s: %s\n", label, snap.Question.Text)
}

func printTranscript(engine *transcript.Engine) {
	snap := engine.Snapshot()
	if !snap.Supported {
		fmt.Println("Speech recognition is not available; type your answer with 'submit'.")
		return
	}
	fmt.Println("--- transcript ---")
	fmt.Println(snap.FinalizedText)
	if snap.PendingText != "" {
		fmt.Printf("(pending) %s\n", snap.PendingText)
	}
	if snap.LastError != nil {
		fmt.Println("recognition error:", snap.LastError)
	}
}

func printReport(report *api.AssessmentReport) {
	if report == nil {
		return
	}
	fmt.Printf("\nOverall score: %d/10 over %d questions\n", report.OverallScore, report.TotalQuestions)
	fmt.Println(report.Summary)
	printList("Strengths", report.Strengths)
	printList("Weaknesses", report.Weaknesses)
	printList("Recommendations", report.Recommendations)
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Println(title + ":")
	for _, item := range items {
		fmt.Println("  -", item)
	}
}

func printHelp() {
	fmt.Print(`Commands:
  start <topic>   begin an interview on a topic
  record          start voice capture for your answer
  stop            stop voice capture
  show            show the current transcript
  submit          submit the captured transcript as your answer
  approve         approve the assessment and move on
  report          fetch the final performance report
  materials       list uploaded study materials
  upload <path>   upload a study document (.pdf, .txt, .md)
  end             finish the interview and fetch the report
  quit            exit
`)
}
