package screenshot

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kbinani/screenshot"

	"dinobot/internal/config"
	"dinobot/internal/frame"
	"dinobot/internal/logger"
)

var captureRect = screenshot.CaptureRect

// ScreenshotManager снимает заданную область экрана и отдаёт её кадром
type ScreenshotManager struct {
	mu         sync.Mutex
	region     config.CoordinatesWithSize
	saveFrames bool
	framesDir  string
	saved      int
	logger     *logger.LoggerManager
}

// NewScreenshotManager создает источник кадров с экрана
func NewScreenshotManager(capture config.Capture, loggerManager *logger.LoggerManager) *ScreenshotManager {
	return &ScreenshotManager{
		region:     capture.Region,
		saveFrames: capture.SaveFrames,
		framesDir:  capture.FramesDir,
		logger:     loggerManager,
	}
}

// SetRegion меняет область захвата (например после автопоиска игры)
func (m *ScreenshotManager) SetRegion(region config.CoordinatesWithSize) {
	m.mu.Lock()
	m.region = region
	m.mu.Unlock()
}

// Region возвращает текущую область захвата
func (m *ScreenshotManager) Region() config.CoordinatesWithSize {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.region
}

// CaptureScreenshot захватывает область экрана в память
func CaptureScreenshot(c config.CoordinatesWithSize) (*image.RGBA, error) {
	bounds := image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
	img, err := captureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return img, nil
}

// CaptureFrame делает снимок и переводит его в Frame
func (m *ScreenshotManager) CaptureFrame(ctx context.Context) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := CaptureScreenshot(m.Region())
	if err != nil {
		return nil, err
	}
	f, err := frame.FromImage(img)
	if err != nil {
		return nil, err
	}

	if m.saveFrames {
		m.saveFrame(f)
	}
	return f, nil
}

func (m *ScreenshotManager) saveFrame(f *frame.Frame) {
	if err := os.MkdirAll(m.framesDir, 0755); err != nil {
		m.logger.LogError(err, "Ошибка создания папки для кадров")
		return
	}

	m.mu.Lock()
	m.saved++
	n := m.saved
	m.mu.Unlock()

	path := filepath.Join(m.framesDir, fmt.Sprintf("frame_%d_%05d.png", time.Now().Unix(), n))
	if err := f.SavePNG(path); err != nil {
		m.logger.LogError(err, "Ошибка сохранения кадра")
		return
	}
	m.logger.Debug("📸 Кадр сохранен: %s", path)
}
