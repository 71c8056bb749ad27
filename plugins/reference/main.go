package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	hookrpc "mdpomo/internal/modules/hook/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// soundEnv names the file played on "play-sound" events.
const soundEnv = "MDPOMO_HOOK_SOUND"

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *hookrpc.Empty) (*hookrpc.Metadata, error) {
	return &hookrpc.Metadata{Name: "reference", Version: "1.0.0"}, nil
}

func (s *server) HandleEvent(ctx context.Context, in *hookrpc.Event) (*hookrpc.HandleEventResponse, error) {
	switch in.Name {
	case "system-notification":
		return run(ctx, "notify-send", "--app-name=mdpomo", in.Title, in.Message)
	case "play-sound":
		file := os.Getenv(soundEnv)
		if file == "" {
			return &hookrpc.HandleEventResponse{Detail: soundEnv + " is not set"}, nil
		}
		return run(ctx, "paplay", file)
	case "log.work-complete", "log.break-complete", "log.work-quit-early":
		at := time.UnixMilli(in.AtUnixMS).Format("15:04")
		d := time.Duration(in.DurationMS) * time.Millisecond
		return &hookrpc.HandleEventResponse{Handled: true, Detail: fmt.Sprintf("%s at %s (%s)", in.LogKind, at, d)}, nil
	default:
		return &hookrpc.HandleEventResponse{Detail: "ignored " + in.Name}, nil
	}
}

func run(ctx context.Context, name string, args ...string) (*hookrpc.HandleEventResponse, error) {
	if _, err := exec.LookPath(name); err != nil {
		return &hookrpc.HandleEventResponse{Detail: name + " not found"}, nil
	}
	if out, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return &hookrpc.HandleEventResponse{Handled: true}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: hookrpc.HandshakeConfig,
		Plugins:         hookrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
