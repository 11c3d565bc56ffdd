package arduino

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Controller нажимает клавиши через Arduino в режиме HID клавиатуры.
// Каждая команда ждёт ответа "received", чтобы нажатие и отпускание не склеились.
type Controller struct {
	port io.ReadWriter
	mu   sync.Mutex
}

// NewController оборачивает открытый порт (*serial.Port или любой io.ReadWriter)
func NewController(port io.ReadWriter) *Controller {
	return &Controller{port: port}
}

// Press отправляет key_down и ждёт подтверждения
func (c *Controller) Press(ctx context.Context, key string) error {
	return c.processAndWait(ctx, func() error {
		return SendKeyDownToArduino(c.port, key)
	})
}

// Release отправляет key_up и ждёт подтверждения
func (c *Controller) Release(ctx context.Context, key string) error {
	return c.processAndWait(ctx, func() error {
		return SendKeyUpToArduino(c.port, key)
	})
}

// ReleaseAll отпускает все клавиши на стороне платы
func (c *Controller) ReleaseAll(ctx context.Context) error {
	return c.processAndWait(ctx, func() error {
		return SendReleaseAllToArduino(c.port)
	})
}

// processAndWait выполняет отправку команды и ожидание ответа от Arduino
func (c *Controller) processAndWait(ctx context.Context, send func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := send(); err != nil {
		return err
	}

	// serial.Port сам ограничивает чтение таймаутом порта, ctx проверяется до отправки
	if _, err := WaitForArduinoResponse(c.port, expectedAck); err != nil {
		return fmt.Errorf("error waiting for Arduino response: %w", err)
	}
	return nil
}
