package smoketest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpay/pmrouter-smoketest/internal/history"
	"github.com/rpay/pmrouter-smoketest/internal/probe"
)

const (
	simpleTaskModel = "gemini-3-flash"
	codingTaskModel = "gpt-5.2-codex"

	chatPrompt    = "Hello, respond with just 'Hi'"
	chatMaxTokens = 10

	modelPreviewLimit   = 5
	contentPreviewLimit = 100
)

// Runner drives the smoke-test sequence against one PM router: health check,
// model listing, then two chat completions that exercise the routing
// decision. It never fails the process; the output is the result.
type Runner struct {
	Client  *probe.Client
	History *history.Store // optional, nil disables recording
	Out     io.Writer
	Pause   time.Duration // pause between the two chat probes
}

// Run executes the full sequence. It aborts after the health or model probe
// fails, matching how a human would stop debugging at the first dead layer.
func (r *Runner) Run(ctx context.Context) {
	r.banner("PM Router Smoke Test")

	if !r.health(ctx) {
		fmt.Fprintf(r.Out, "\n⚠️ The proxy is not running. Start the Antigravity Manager first.\n")
		return
	}

	fmt.Fprintln(r.Out)

	if !r.models(ctx) {
		return
	}

	fmt.Fprintln(r.Out)
	r.banner("Chat Tests - PM Router Behavior")

	r.chat(ctx, simpleTaskModel, "Simple Task (Gemini Flash)")
	time.Sleep(r.Pause)

	ok, used := r.chat(ctx, codingTaskModel, "Coding Task (Codex)")
	if ok && used != "" {
		if strings.Contains(strings.ToLower(used), "codex") {
			fmt.Fprintf(r.Out, "\n🎉 PM router served the coding task with a Codex model!\n")
		} else {
			fmt.Fprintf(r.Out, "\n⚠️ PM router used %s instead of a Codex model.\n", used)
		}
	}

	r.summary()

	fmt.Fprintln(r.Out)
	r.banner("Test Complete")
}

func (r *Runner) health(ctx context.Context) bool {
	err := r.Client.Health(ctx)
	r.record(history.Run{Probe: "health", Success: err == nil, Detail: errDetail(err)})

	if err != nil {
		fmt.Fprintf(r.Out, "❌ Health check failed: %v\n", err)
		return false
	}
	fmt.Fprintf(r.Out, "✅ Health check: OK\n")
	return true
}

func (r *Runner) models(ctx context.Context) bool {
	models, err := r.Client.ListModels(ctx)
	r.record(history.Run{Probe: "models", Success: err == nil, Detail: errDetail(err)})

	if err != nil {
		fmt.Fprintf(r.Out, "❌ Models list error: %v\n", err)
		return false
	}

	preview := models
	suffix := ""
	if len(preview) > modelPreviewLimit {
		preview = preview[:modelPreviewLimit]
		suffix = "..."
	}
	fmt.Fprintf(r.Out, "✅ Models list: %d models\n", len(models))
	fmt.Fprintf(r.Out, "   Available: %s%s\n", strings.Join(preview, ", "), suffix)
	return true
}

// chat runs one chat probe and returns (ok, used model) so the caller can
// check the routing verdict. Failure never carries a model value.
func (r *Runner) chat(ctx context.Context, model, testName string) (bool, string) {
	fmt.Fprintf(r.Out, "\n🧪 Testing %s (model: %s)...\n", testName, model)

	res, err := r.Client.ChatCompletion(ctx, model, chatPrompt, chatMaxTokens)
	if err != nil {
		r.record(history.Run{Probe: "chat", RequestedModel: model, Success: false, Detail: errDetail(err)})
		fmt.Fprintf(r.Out, "❌ Chat error: %v\n", err)
		return false, ""
	}

	r.record(history.Run{
		Probe:          "chat",
		RequestedModel: model,
		UsedModel:      res.UsedModel,
		Success:        true,
		Latency:        res.Duration,
	})

	content := res.Content
	if len(content) > contentPreviewLimit {
		content = content[:contentPreviewLimit]
	}

	fmt.Fprintf(r.Out, "✅ Chat response (%.2fs)\n", res.Duration.Seconds())
	fmt.Fprintf(r.Out, "   Requested: %s\n", res.RequestedModel)
	fmt.Fprintf(r.Out, "   Used: %s\n", res.UsedModel)
	fmt.Fprintf(r.Out, "   Response: %s\n", content)

	return true, res.UsedModel
}

// summary prints the accumulated chat-probe history for this router, when a
// history database is attached.
func (r *Runner) summary() {
	if r.History == nil {
		return
	}
	sum, err := r.History.Summarize("chat")
	if err != nil || sum.TotalRuns == 0 {
		return
	}
	fmt.Fprintf(r.Out, "\n📊 Chat probe history: %d runs, %.1f%% success, avg %.0fms\n",
		sum.TotalRuns, sum.SuccessRate, sum.AvgLatencyMs)
}

func (r *Runner) record(run history.Run) {
	if r.History == nil {
		return
	}
	run.Target = r.Client.BaseURL
	// History is best-effort; a broken local database must not fail a probe.
	r.History.Record(run)
}

func (r *Runner) banner(title string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(r.Out, line)
	fmt.Fprintln(r.Out, title)
	fmt.Fprintln(r.Out, line)
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
