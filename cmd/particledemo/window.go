package main

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// windowState holds the demo's single GLFW window, adapted from the
// engine's platform-window module down to the one window this demo needs.
type windowState struct {
	win    *glfw.Window
	width  int
	height int
}

// activeWindow is the demo's single window, polled each tick by
// pollWindowSystem in main.go.
var activeWindow *windowState

func glfwPollEvents() { glfw.PollEvents() }

func windowShouldClose() bool {
	return activeWindow != nil && activeWindow.win.ShouldClose()
}

func createWindow(width, height int, title string) *windowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}
	ws := &windowState{win: win, width: width, height: height}
	activeWindow = ws
	return ws
}

// gpuState is the minimal wgpu device/queue/surface triple this demo uses
// to prove out the render-batch contract against a real swapchain.
type gpuState struct {
	surface       *wgpu.Surface
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func createGpu(w *windowState) *gpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.win))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "particledemo"})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	cfg := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(w.width),
		Height:      uint32(w.height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &cfg)

	return &gpuState{surface: surface, device: device, queue: queue, surfaceConfig: &cfg}
}
