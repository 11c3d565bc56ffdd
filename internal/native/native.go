package native

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
)

var keyToggle = robotgo.KeyToggle

// Keyboard нажимает клавиши через системный ввод (без Arduino)
type Keyboard struct {
	mu sync.Mutex
}

// NewKeyboard создает системную клавиатуру
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Press зажимает клавишу
func (k *Keyboard) Press(ctx context.Context, key string) error {
	return k.toggle(ctx, key, "down")
}

// Release отпускает клавишу
func (k *Keyboard) Release(ctx context.Context, key string) error {
	return k.toggle(ctx, key, "up")
}

func (k *Keyboard) toggle(ctx context.Context, key, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := keyToggle(key, dir); err != nil {
		return fmt.Errorf("key %s %s: %w", key, dir, err)
	}
	return nil
}
