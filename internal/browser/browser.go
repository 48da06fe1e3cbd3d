package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jgoulah/energyview/internal/render"
)

// TooltipCapture is the tooltip text echarts produced for one point
type TooltipCapture struct {
	Index   int    `json:"index"`
	Tooltip string `json:"tooltip"`
}

// Inspector drives a headless browser against a rendered chart page
type Inspector struct {
	Visible bool
	Timeout time.Duration
	Log     *zap.Logger

	// viewport used for screenshots, default 1280x800
	Width  int64
	Height int64
}

func (in *Inspector) viewport() (int64, int64) {
	w, h := in.Width, in.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 800
	}
	return w, h
}

// allocatorOptions returns the exec allocator flags for the inspector
func (in *Inspector) allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !in.Visible),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
}

// open starts a browser and returns its context. The caller must invoke the
// returned cancel func.
func (in *Inspector) open(ctx context.Context) (context.Context, context.CancelFunc) {
	log := in.Log
	if log == nil {
		log = zap.NewNop()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, in.allocatorOptions()...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	timeout := in.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*runtime.EventConsoleAPICalled); ok {
			log.Debug("browser console", zap.String("type", e.Type.String()), zap.String("args", consoleArgs(e.Args)))
		}
	})

	return browserCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// waitForChart navigates to url and waits until echarts has an instance
// bound to the chart container
func waitForChart(url string) chromedp.Tasks {
	var ready bool
	return chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("#"+render.ChartID, chromedp.ByQuery),
		chromedp.Poll(instanceExpr+" !== undefined", &ready, chromedp.WithPollingInterval(100*time.Millisecond)),
	}
}

const instanceExpr = `echarts.getInstanceByDom(document.getElementById('` + render.ChartID + `'))`

// CaptureTooltips loads the chart page at url and asks echarts for the
// tooltip of each requested point. With no indexes every point is captured.
func (in *Inspector) CaptureTooltips(ctx context.Context, url string, indexes []int) ([]TooltipCapture, error) {
	browserCtx, cancel := in.open(ctx)
	defer cancel()

	if err := chromedp.Run(browserCtx, waitForChart(url)); err != nil {
		return nil, fmt.Errorf("loading chart page: %w", err)
	}

	if len(indexes) == 0 {
		var count int
		if err := chromedp.Run(browserCtx,
			chromedp.Evaluate(instanceExpr+`.getOption().xAxis[0].data.length`, &count),
		); err != nil {
			return nil, fmt.Errorf("counting points: %w", err)
		}
		for i := 0; i < count; i++ {
			indexes = append(indexes, i)
		}
	}

	captures := make([]TooltipCapture, 0, len(indexes))
	for _, i := range indexes {
		var text string
		expr := fmt.Sprintf(`%s.getOption().tooltip[0].formatter({dataIndex: %d})`, instanceExpr, i)
		if err := chromedp.Run(browserCtx, chromedp.Evaluate(expr, &text)); err != nil {
			return nil, fmt.Errorf("evaluating tooltip %d: %w", i, err)
		}
		captures = append(captures, TooltipCapture{Index: i, Tooltip: text})
	}

	return captures, nil
}

// Screenshot loads the chart page at url and returns a PNG of the chart
// container
func (in *Inspector) Screenshot(ctx context.Context, url string) ([]byte, error) {
	browserCtx, cancel := in.open(ctx)
	defer cancel()

	w, h := in.viewport()

	var buf []byte
	if err := chromedp.Run(browserCtx,
		emulation.SetDeviceMetricsOverride(w, h, 1, false),
		waitForChart(url),
		// let the line animation finish
		chromedp.Sleep(time.Second),
		chromedp.Screenshot("#"+render.ChartID, &buf, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("taking screenshot: %w", err)
	}

	return buf, nil
}

func consoleArgs(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if len(a.Value) > 0 {
			parts = append(parts, string(a.Value))
			continue
		}
		parts = append(parts, a.Description)
	}
	return strings.Join(parts, " ")
}
