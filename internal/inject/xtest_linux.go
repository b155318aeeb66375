// internal/inject/xtest_linux.go
//go:build linux

package inject

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/OsbornePro/FKeySender/internal/keyseq"
	"github.com/sirupsen/logrus"
)

// XTest injects through the X11 XTEST extension, one fake key event per
// injection event. Virtual keys are looked up by keysym; scan codes are
// treated as evdev codes.
type XTest struct {
	xu      *xgbutil.XUtil
	conn    *xgb.Conn
	rootWin xproto.Window
	log     logrus.FieldLogger
}

func NewXTest(log logrus.FieldLogger) (*XTest, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, err
	}
	keybind.Initialize(xu)

	return &XTest{xu: xu, conn: conn, rootWin: xu.RootWin(), log: log}, nil
}

func (x *XTest) Close() {
	x.conn.Close()
}

func (x *XTest) Method() keyseq.Method { return keyseq.MethodXTest }

func (x *XTest) Check(codes keyseq.KeyCodePair) error {
	_, err := x.keycode(codes)
	return err
}

func (x *XTest) keycode(codes keyseq.KeyCodePair) (xproto.Keycode, error) {
	if codes.VirtualKey != 0 {
		name, ok := x11KeysymName(codes.VirtualKey)
		if !ok {
			return 0, unsupported(keyseq.MethodXTest, codes, "no keysym for this virtual-key code")
		}
		kcs := keybind.StrToKeycodes(x.xu, name)
		if len(kcs) == 0 {
			return 0, unsupported(keyseq.MethodXTest, codes, "keysym "+name+" is not in the keyboard map")
		}
		return kcs[0], nil
	}
	if codes.Extended {
		return 0, unsupported(keyseq.MethodXTest, codes, "extended scan codes have no fixed evdev code")
	}
	kc := int(codes.ScanCode) + evdevKeycodeOffset
	if codes.ScanCode == 0 || kc > 255 {
		return 0, unsupported(keyseq.MethodXTest, codes, "scan code out of X keycode range")
	}
	return xproto.Keycode(kc), nil
}

// Dispatch keeps going after a failed event so that a release sequence
// frees as many keys as it can.
func (x *XTest) Dispatch(events []keyseq.InjectionEvent) error {
	var firstErr error
	for _, ev := range events {
		kc, err := x.keycode(ev.Codes)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		eventType := byte(xproto.KeyPress)
		if ev.Phase == keyseq.PhaseUp {
			eventType = xproto.KeyRelease
		}
		if err := xtest.FakeInputChecked(
			x.conn,
			eventType,
			byte(kc),
			xproto.TimeCurrentTime,
			x.rootWin,
			0,
			0,
			0,
		).Check(); err != nil {
			x.log.WithError(err).WithField("keycode", kc).Warn("xtest fake input failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	x.conn.Sync()
	return firstErr
}

func platformOpeners() []opener {
	return []opener{
		func(log logrus.FieldLogger) (keyseq.Injector, func(), error) {
			x, err := NewXTest(log)
			if err != nil {
				return nil, nil, err
			}
			return x, x.Close, nil
		},
	}
}
