//go:build !windows

package interrupt

import "os"

// monitorHotkeys: глобальный хук есть только в Windows, здесь команды идут из stdin
func (im *InterruptManager) monitorHotkeys() {
	im.loggerManager.Info("⌨️ Команды: s + Enter - старт, q + Enter - стоп")
	im.monitorReader(os.Stdin)
}
