package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"dinobot/internal/config"
	"dinobot/internal/frame"
	"dinobot/internal/logger"
)

const (
	navigateTimeout = 60 * time.Second
	captureTimeout  = 5 * time.Second
	keyTimeout      = 2 * time.Second
)

var ErrNotStarted = errors.New("browser not started")

// Browser открывает игру в Chrome и служит одновременно источником кадров
// и клавиатурой: кадры через CaptureScreenshot, нажатия через Input.dispatchKeyEvent
type Browser struct {
	capture config.Capture
	logger  *logger.LoggerManager

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewBrowser создает браузер; окно открывается в Start
func NewBrowser(capture config.Capture, loggerManager *logger.LoggerManager) *Browser {
	return &Browser{capture: capture, logger: loggerManager}
}

// Start запускает Chrome и открывает страницу игры
func (b *Browser) Start() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.capture.Headless),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(800, 600),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		b.logger.Debug(format, args...)
	}))

	b.mu.Lock()
	b.ctx, b.cancel, b.allocCancel = ctx, cancel, allocCancel
	b.mu.Unlock()

	b.logger.Info("🌐 Открываем %s", b.capture.GameURL)
	navCtx, navCancel := context.WithTimeout(ctx, navigateTimeout)
	defer navCancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(b.capture.GameURL)); err != nil {
		return fmt.Errorf("navigate to %s: %w", b.capture.GameURL, err)
	}
	return nil
}

func (b *Browser) browserCtx() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx == nil || b.ctx.Err() != nil {
		return nil, ErrNotStarted
	}
	return b.ctx, nil
}

// run выполняет действие в контексте вкладки, но с отменой и от ctx вызывающего
func (b *Browser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tabCtx, err := b.browserCtx()
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// CaptureFrame снимает вкладку и вырезает область игры, если она задана
func (b *Browser) CaptureFrame(ctx context.Context) (*frame.Frame, error) {
	var buf []byte
	if err := b.run(ctx, captureTimeout, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return frame.FromImage(crop(img, b.capture.Region))
}

// Press отправляет keyDown во вкладку
func (b *Browser) Press(ctx context.Context, key string) error {
	return b.dispatch(ctx, input.KeyDown, key)
}

// Release отправляет keyUp во вкладку
func (b *Browser) Release(ctx context.Context, key string) error {
	return b.dispatch(ctx, input.KeyUp, key)
}

func (b *Browser) dispatch(ctx context.Context, typ input.KeyType, key string) error {
	def, err := lookupKey(key)
	if err != nil {
		return err
	}
	ev := input.DispatchKeyEvent(typ).
		WithKey(def.key).
		WithCode(def.code).
		WithWindowsVirtualKeyCode(def.vk).
		WithNativeVirtualKeyCode(def.vk)
	if err := b.run(ctx, keyTimeout, ev); err != nil {
		return fmt.Errorf("dispatch %s %s: %w", typ, key, err)
	}
	return nil
}

// Close закрывает вкладку и процесс Chrome
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.logger.Info("🌐 Браузер закрыт")
}

type keyDef struct {
	key  string
	code string
	vk   int64
}

var keys = map[string]keyDef{
	"space": {key: " ", code: "Space", vk: 32},
	"up":    {key: "ArrowUp", code: "ArrowUp", vk: 38},
	"down":  {key: "ArrowDown", code: "ArrowDown", vk: 40},
}

func lookupKey(name string) (keyDef, error) {
	def, ok := keys[name]
	if !ok {
		return keyDef{}, fmt.Errorf("unsupported key %q", name)
	}
	return def, nil
}

// crop вырезает region из снимка; пустой region - весь снимок
func crop(img image.Image, region config.CoordinatesWithSize) image.Image {
	if region.Width <= 0 || region.Height <= 0 {
		return img
	}
	r := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height).
		Add(img.Bounds().Min).
		Intersect(img.Bounds())
	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok || r.Empty() {
		return img
	}
	return sub.SubImage(r)
}
