//go:build !windows

package console

func newPlatformDevice() Device {
	return newScreenDevice()
}
