package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	hookrpc "mdpomo/internal/modules/hook/adapter/out/rpc"
	"mdpomo/internal/modules/hook/domain"
	hookout "mdpomo/internal/modules/hook/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches a hook process per call and kills it afterwards.
type GRPCHost struct {
	logger hclog.Logger
}

func NewGRPCHost(logger hclog.Logger) hookout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version}, nil
}

func (h *GRPCHost) HandleEvent(ctx context.Context, manifest domain.Manifest, event domain.Event) error {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.HandleEvent(callCtx, &hookrpc.Event{
		Name:       event.Name,
		RunID:      event.RunID,
		Mode:       event.Mode,
		AtUnixMS:   event.At.UnixMilli(),
		Title:      event.Title,
		Message:    event.Message,
		LogKind:    event.LogKind,
		DurationMS: event.Duration.Milliseconds(),
		VaultPath:  event.VaultPath,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: event %s", domain.ErrHookTimeout, event.Name)
		}
		return fmt.Errorf("handle event: %w", err)
	}
	if !response.Handled {
		h.logger.Debug("hook skipped event", "hook", manifest.Name, "event", event.Name, "detail", response.Detail)
	}
	return nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (hookrpc.HookClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  hookrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          hookrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start hook client: %w", err)
	}
	raw, err := rpcClient.Dispense(hookrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense hook: %w", err)
	}
	typed, ok := raw.(hookrpc.HookClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("hook rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}
