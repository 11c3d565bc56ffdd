//go:build windows

package interrupt

import (
	"github.com/moutend/go-hook/pkg/keyboard"
	"github.com/moutend/go-hook/pkg/types"
)

// monitorHotkeys: Shift+Enter - запуск, Q или CapsLock - остановка
func (im *InterruptManager) monitorHotkeys() {
	eventChan := make(chan types.KeyboardEvent, 100)
	if err := keyboard.Install(nil, eventChan); err != nil {
		im.loggerManager.LogError(err, "Не удалось установить хук клавиатуры")
		return
	}
	defer keyboard.Uninstall()
	im.loggerManager.Info("⌨️ Горячие клавиши: Shift+Enter - старт, Q - стоп")

	shiftPressed := false

	for event := range eventChan {
		isShift := event.VKCode == types.VK_LSHIFT || event.VKCode == types.VK_RSHIFT
		if event.Message == types.WM_KEYDOWN && isShift {
			shiftPressed = true
		}
		if event.Message == types.WM_KEYUP && isShift {
			shiftPressed = false
		}
		if event.Message == types.WM_KEYDOWN && event.VKCode == types.VK_RETURN && shiftPressed {
			im.requestStart()
		}
		if event.Message == types.WM_KEYDOWN && (event.VKCode == types.VK_Q || event.VKCode == types.VK_CAPITAL) {
			im.requestStop()
		}
	}
}
