// Package term is a GPU-accelerated terminal emulator core for Go.
//
// # Overview
//
// term runs a shell on a pty, decodes its ANSI/VT output into a screen
// buffer with unbounded scrollback, and renders the visible grid as
// textured quads from a cached glyph atlas. It is designed to integrate
// with the GoGPU ecosystem: the renderer targets gogpu/wgpu's HAL, and
// a host application that already owns a HAL device can share it.
//
// # Quick Start
//
//	import "github.com/gogpu/term"
//
//	cfg := term.DefaultConfig()
//	cfg.FontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf"
//
//	sess, err := term.NewSession(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	for {
//	    <-sess.Wake()
//	    sess.Pump()
//	    // render sess.Screen() ...
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Session, Config (this package)
//   - vt: control-sequence decoder and screen buffer
//   - atlas: shelf-packed glyph atlas with bounded LRU caching
//   - font: font loading and glyph rasterization
//   - render: per-frame quad building and atlas texture sync
//   - gpu, gpu/wgpu: backend seam and its WebGPU HAL implementation
//   - shell: pty process management and input encoding
//
// The vt, atlas, font and render packages have no GPU dependency and
// work headless; see examples/headless.
//
// # Logging
//
// term is silent by default. Call [SetLogger] with a slog.Logger to
// enable diagnostics across all sub-packages.
package term
