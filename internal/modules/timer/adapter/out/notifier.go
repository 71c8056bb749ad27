package out

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/hashicorp/go-hclog"

	timerout "mdpomo/internal/modules/timer/port/out"
)

// LogNotifier writes notices to the diagnostic log. It is the fallback when
// no desktop session is reachable.
type LogNotifier struct {
	logger hclog.Logger
}

func NewLogNotifier(logger hclog.Logger) timerout.Notifier {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notice(_ context.Context, message string) error {
	n.logger.Info("notice", "message", message)
	return nil
}

func (n *LogNotifier) System(_ context.Context, title, body string) error {
	n.logger.Info("system notification", "title", title, "body", body)
	return nil
}

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notifyMethod         = "org.freedesktop.Notifications.Notify"
	notifyTimeoutMS      = int32(8000)
)

// DBusNotifier sends system notifications over the session bus. Notices are
// passed to the fallback notifier.
type DBusNotifier struct {
	appName  string
	fallback timerout.Notifier

	mu   sync.Mutex
	conn *dbus.Conn
}

func NewDBusNotifier(appName string, fallback timerout.Notifier) *DBusNotifier {
	return &DBusNotifier{appName: appName, fallback: fallback}
}

func (n *DBusNotifier) Notice(ctx context.Context, message string) error {
	if n.fallback == nil {
		return nil
	}
	return n.fallback.Notice(ctx, message)
}

func (n *DBusNotifier) System(ctx context.Context, title, body string) error {
	conn, err := n.connection()
	if err != nil {
		if n.fallback != nil {
			_ = n.fallback.System(ctx, title, body)
		}
		return err
	}
	obj := conn.Object(notificationsService, dbus.ObjectPath(notificationsPath))
	call := obj.CallWithContext(ctx, notifyMethod, 0,
		n.appName,
		uint32(0),
		"appointment-soon",
		title,
		body,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		notifyTimeoutMS,
	)
	if call.Err != nil {
		n.reset()
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}

func (n *DBusNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}

func (n *DBusNotifier) connection() (*dbus.Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil {
		return n.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	n.conn = conn
	return conn, nil
}

func (n *DBusNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
}
