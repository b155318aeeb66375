//go:build !windows && !linux

package inject

func platformOpeners() []opener {
	return nil
}
