package loadgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options controls a load run against a commerce-backend instance.
type Options struct {
	BaseURL     string
	Profile     string
	Concurrency int
	Duration    time.Duration
}

type requestResult struct {
	target  string
	status  int
	err     error
	latency time.Duration
}

type tickMsg time.Time
type doneMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	borderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().Faint(true)
)

type model struct {
	opts    Options
	start   time.Time
	results chan requestResult
	done    chan struct{}

	total        int
	failures     int
	statusCounts map[string]int
	targetCounts map[string]int
	totalLatency time.Duration
	finished     bool
}

func newModel(opts Options, results chan requestResult, done chan struct{}) model {
	return model{
		opts:         opts,
		start:        time.Now(),
		results:      results,
		done:         done,
		statusCounts: map[string]int{},
		targetCounts: map[string]int{},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.waitForResult(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case res, ok := <-m.results:
			if !ok {
				return doneMsg{}
			}
			return res
		case <-m.done:
			return doneMsg{}
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case requestResult:
		m.total++
		m.totalLatency += msg.latency
		m.targetCounts[msg.target]++
		if msg.err != nil {
			m.failures++
			m.statusCounts["error"]++
		} else {
			m.statusCounts[classifyStatusClass(msg.status)]++
		}
		return m, m.waitForResult()
	case tickMsg:
		return m, tick()
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	elapsed := time.Since(m.start).Truncate(100 * time.Millisecond)
	var b strings.Builder
	b.WriteString(titleStyle.Render("commerce-backend loadgen"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("profile=%s workers=%d target=%s elapsed=%s",
		normalizeProfile(m.opts.Profile), m.opts.Concurrency, m.opts.BaseURL, elapsed)))
	b.WriteString("\n\n")

	var avg time.Duration
	if m.total > 0 {
		avg = m.totalLatency / time.Duration(m.total)
	}
	stats := fmt.Sprintf("requests: %d   avg latency: %s\n", m.total, avg.Truncate(time.Microsecond))
	for _, class := range []string{"2xx", "3xx", "4xx", "5xx", "other", "error"} {
		count := m.statusCounts[class]
		if count == 0 {
			continue
		}
		style := okStyle
		switch class {
		case "4xx":
			style = warnStyle
		case "5xx", "error":
			style = errStyle
		}
		stats += style.Render(fmt.Sprintf("%-6s %d", class, count)) + "\n"
	}
	b.WriteString(borderStyle.Render(strings.TrimRight(stats, "\n")))
	b.WriteString("\n\n")

	targets := make([]string, 0, len(m.targetCounts))
	for t := range m.targetCounts {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	for _, t := range targets {
		b.WriteString(summaryStyle.Render(fmt.Sprintf("%-32s %d", t, m.targetCounts[t])))
		b.WriteString("\n")
	}
	if m.finished {
		b.WriteString("\nrun complete, press q to exit\n")
	} else {
		b.WriteString("\npress q to stop\n")
	}
	return b.String()
}

type target struct {
	name   string
	method string
	path   string
	body   string
}

func targetsForProfile(profile string) []target {
	auth := []target{
		{name: "auth.login", method: http.MethodPost, path: "/api/v1/auth/login", body: `{"email":"john@example.com","password":"123456"}`},
		{name: "auth.refresh", method: http.MethodPost, path: "/api/v1/auth/refresh", body: ""},
	}
	catalog := []target{
		{name: "catalog.products", method: http.MethodGet, path: "/api/v1/products?page=1&pageSize=20"},
		{name: "catalog.product", method: http.MethodGet, path: "/api/v1/products/1"},
		{name: "catalog.categories", method: http.MethodGet, path: "/api/v1/categories"},
	}
	health := []target{
		{name: "health.live", method: http.MethodGet, path: "/health/live"},
		{name: "health.ready", method: http.MethodGet, path: "/health/ready"},
	}
	switch normalizeProfile(profile) {
	case "auth":
		return auth
	case "catalog":
		return catalog
	case "health":
		return health
	default:
		return append(append(append([]target{}, auth...), catalog...), health...)
	}
}

// Run drives the load workers and renders live counters until the duration
// elapses or the user quits.
func Run(opts Options) error {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Duration <= 0 {
		opts.Duration = 30 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	results := make(chan requestResult, opts.Concurrency*4)
	done := make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), opts.Duration)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}
	targets := targetsForProfile(opts.Profile)

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				t := targets[rand.IntN(len(targets))]
				results <- performRequest(ctx, client, opts.BaseURL, t)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	p := tea.NewProgram(newModel(opts, results, done))
	_, err := p.Run()
	cancel()
	wg.Wait()
	return err
}

func performRequest(ctx context.Context, client *http.Client, baseURL string, t target) requestResult {
	start := time.Now()
	var body *strings.Reader
	if t.body != "" {
		body = strings.NewReader(t.body)
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, t.method, baseURL+t.path, body)
	if err != nil {
		return requestResult{target: t.name, err: err, latency: time.Since(start)}
	}
	if t.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return requestResult{target: t.name, err: err, latency: time.Since(start)}
	}
	resp.Body.Close()
	return requestResult{target: t.name, status: resp.StatusCode, latency: time.Since(start)}
}

func classifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "other"
	}
}

func normalizeProfile(profile string) string {
	p := strings.ToLower(strings.TrimSpace(profile))
	if p == "" {
		return "mixed"
	}
	return p
}
