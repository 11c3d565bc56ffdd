package arduino

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

const (
	expectedAck   = "received"
	readTimeout   = 500 * time.Millisecond
	maxEmptyReads = 3
)

var ErrNoResponse = errors.New("no response from Arduino")

func InitializePort(name string, baud int) (*serial.Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: readTimeout,
	})
	return port, err
}

func SendKeyDownToArduino(port io.Writer, key string) error {
	message := fmt.Sprintf("key_down:%s\n", key)
	if _, err := port.Write([]byte(message)); err != nil {
		return fmt.Errorf("error writing to Arduino: %w", err)
	}
	return nil
}

func SendKeyUpToArduino(port io.Writer, key string) error {
	message := fmt.Sprintf("key_up:%s\n", key)
	if _, err := port.Write([]byte(message)); err != nil {
		return fmt.Errorf("error writing to Arduino: %w", err)
	}
	return nil
}

func SendReleaseAllToArduino(port io.Writer) error {
	if _, err := port.Write([]byte("release_all\n")); err != nil {
		return fmt.Errorf("error writing to Arduino: %w", err)
	}
	return nil
}

func WaitForArduinoResponse(port io.Reader, expectedResponse string) (string, error) {
	var response string
	buf := make([]byte, 128)
	empty := 0
	for {
		n, err := port.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("error reading from Arduino: %w", err)
		}
		// по таймауту порт возвращает 0 байт (на posix вместе с io.EOF)
		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return "", ErrNoResponse
			}
			continue
		}

		response += string(buf[:n])

		if len(response) > 0 && response[len(response)-1] == '\n' {
			// Trim the newline character and any surrounding spaces
			response = string(bytes.TrimSpace([]byte(response)))

			if response == expectedResponse {
				return response, nil
			}
			return "", fmt.Errorf("unexpected response: '%s'", response)
		}
	}
}
