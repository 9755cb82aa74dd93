package surface

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// FrameShaderSource is the WGSL program that stretches the uploaded frame over the surface.
//
//go:embed assets/frame.wgsl
var FrameShaderSource string

var (
	// ErrNoSurface is returned when the target has no native window to present to.
	ErrNoSurface = errors.New("target has no native surface")
	// ErrReleased is returned by Present after Release.
	ErrReleased = errors.New("surface released")
)

// Target is the window a Surface presents to. window.Window satisfies it.
type Target interface {
	// SurfaceDescriptor returns the platform surface descriptor, or nil before the window exists.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	// Width returns the framebuffer width in pixels.
	Width() int
	// Height returns the framebuffer height in pixels.
	Height() int
}

// Surface presents CPU-rendered viewport frames to a window through WebGPU.
// Each Present uploads the frame into a texture and draws it over the cleared background
// with alpha blending, so transparent pixels show the clear color.
type Surface interface {
	// Resize reconfigures the swap chain for a new framebuffer size. A zero size, such as a
	// minimized window, suspends presentation until the next non-zero resize.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// Size returns the configured framebuffer size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Present uploads img and shows it stretched over the whole surface.
	//
	// Parameters:
	//   - img: the frame, top row first
	//
	// Returns:
	//   - error: ErrReleased, or an error acquiring or submitting the frame
	Present(img *image.NRGBA) error

	// Release frees every GPU object. Safe to call more than once.
	Release()
}

type surfaceImpl struct {
	mu *sync.Mutex

	presentMode     wgpu.PresentMode
	fallbackAdapter bool
	clear           color.NRGBA

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	frameFormat   wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode

	shader   *wgpu.ShaderModule
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.BindGroupLayout
	sampler  *wgpu.Sampler

	// Frame texture, recreated when the uploaded image changes size.
	frame          *wgpu.Texture
	frameView      *wgpu.TextureView
	bindGroup      *wgpu.BindGroup
	frameW, frameH int

	width, height int
	released      bool
}

var _ Surface = &surfaceImpl{}

// NewSurface creates a WebGPU instance, surface, adapter and device for target and
// configures the swap chain at the target's size.
//
// Parameters:
//   - target: the window to present to
//   - options: functional options to configure the surface
//
// Returns:
//   - Surface: the surface
//   - error: ErrNoSurface, or an error from adapter, device or pipeline creation
func NewSurface(target Target, options ...SurfaceBuilderOption) (Surface, error) {
	s := &surfaceImpl{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		clear:       DefaultClearColor,
	}
	for _, option := range options {
		option(s)
	}

	descriptor := target.SurfaceDescriptor()
	if descriptor == nil {
		return nil, ErrNoSurface
	}

	s.instance = wgpu.CreateInstance(nil)
	s.surface = s.instance.CreateSurface(descriptor)

	adapter, err := s.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: s.fallbackAdapter,
		CompatibleSurface:    s.surface,
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("surface: request adapter: %w", err)
	}
	s.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Viewport Device"})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("surface: request device: %w", err)
	}
	s.device = device
	s.queue = device.GetQueue()

	capabilities := s.surface.GetCapabilities(adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		s.Release()
		return nil, fmt.Errorf("surface: adapter cannot present to this window")
	}
	s.surfaceFormat, s.frameFormat = PickFormats(capabilities.Formats)
	s.alphaMode = capabilities.AlphaModes[0]

	if err := s.createPipeline(); err != nil {
		s.Release()
		return nil, err
	}

	s.configure(target.Width(), target.Height())
	return s, nil
}

// PickFormats chooses the swap chain format from the formats the surface supports and the
// matching format for the uploaded frame. Frame pixels are already sRGB encoded, so a
// linear 8-bit surface format is preferred; when only sRGB formats exist the frame texture
// is sRGB too so sampling decodes what presenting re-encodes.
//
// Parameters:
//   - formats: the supported surface formats, most preferred first
//
// Returns:
//   - wgpu.TextureFormat: the surface format
//   - wgpu.TextureFormat: the frame texture format
func PickFormats(formats []wgpu.TextureFormat) (wgpu.TextureFormat, wgpu.TextureFormat) {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f, wgpu.TextureFormatRGBA8Unorm
		}
	}
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f, wgpu.TextureFormatRGBA8UnormSrgb
		}
	}
	return formats[0], wgpu.TextureFormatRGBA8Unorm
}

func (s *surfaceImpl) createPipeline() error {
	shader, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Frame Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: FrameShaderSource},
	})
	if err != nil {
		return fmt.Errorf("surface: frame shader: %w", err)
	}
	s.shader = shader

	blend := wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	}
	pipeline, err := s.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Frame Pipeline",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: s.surfaceFormat,
				Blend: &wgpu.BlendState{
					Color: blend,
					Alpha: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("surface: frame pipeline: %w", err)
	}
	s.pipeline = pipeline
	s.layout = pipeline.GetBindGroupLayout(0)

	sampler, err := s.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Frame Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("surface: frame sampler: %w", err)
	}
	s.sampler = sampler
	return nil
}

// configure applies the swap chain size. Caller must hold the mutex or own s exclusively.
func (s *surfaceImpl) configure(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	if s.width == 0 || s.height == 0 {
		return
	}
	s.surface.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.surfaceFormat,
		Width:       uint32(s.width),
		Height:      uint32(s.height),
		PresentMode: s.presentMode,
		AlphaMode:   s.alphaMode,
	})
}

func (s *surfaceImpl) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || (width == s.width && height == s.height) {
		return
	}
	s.configure(width, height)
}

func (s *surfaceImpl) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *surfaceImpl) Present(img *image.NRGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return ErrReleased
	}
	if s.width == 0 || s.height == 0 || img.Rect.Empty() {
		return nil
	}
	if err := s.upload(img); err != nil {
		return err
	}

	surfaceTexture, err := s.surface.GetCurrentTexture()
	if err != nil {
		// An outdated swap chain is fixed by configuring it again.
		s.configure(s.width, s.height)
		return fmt.Errorf("surface: acquire frame: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("surface: frame view: %w", err)
	}
	defer view.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("surface: command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: ClearValue(s.clear),
		}},
	})
	pass.SetPipeline(s.pipeline)
	pass.SetBindGroup(0, s.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	err = pass.End()
	pass.Release()
	if err != nil {
		return fmt.Errorf("surface: frame pass: %w", err)
	}

	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("surface: finish frame: %w", err)
	}
	s.queue.Submit(commands)
	commands.Release()

	s.surface.Present()
	return nil
}

// upload writes img into the frame texture, recreating it when the size changed.
// Caller must hold the mutex.
func (s *surfaceImpl) upload(img *image.NRGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if s.frame == nil || w != s.frameW || h != s.frameH {
		s.releaseFrame()

		frame, err := s.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "Viewport Frame",
			Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Dimension:     wgpu.TextureDimension2D,
			Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
			Format:        s.frameFormat,
			MipLevelCount: 1,
			SampleCount:   1,
		})
		if err != nil {
			return fmt.Errorf("surface: frame texture: %w", err)
		}
		s.frame = frame

		view, err := frame.CreateView(nil)
		if err != nil {
			s.releaseFrame()
			return fmt.Errorf("surface: frame texture view: %w", err)
		}
		s.frameView = view

		bindGroup, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Frame Bind Group",
			Layout: s.layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: view},
				{Binding: 1, Sampler: s.sampler},
			},
		})
		if err != nil {
			s.releaseFrame()
			return fmt.Errorf("surface: frame bind group: %w", err)
		}
		s.bindGroup = bindGroup
		s.frameW, s.frameH = w, h
	}

	err := s.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: s.frame, Aspect: wgpu.TextureAspectAll},
		FramePixels(img),
		&wgpu.TextureDataLayout{BytesPerRow: uint32(4 * w), RowsPerImage: uint32(h)},
		&wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("surface: upload frame: %w", err)
	}
	return nil
}

// FramePixels returns img's pixels as tightly packed RGBA rows, top row first. The pixel
// slice is returned as is when it already has that layout.
//
// Parameters:
//   - img: the frame
//
// Returns:
//   - []byte: 4 * width * height bytes
func FramePixels(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	row := 4 * w
	start := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y)
	if img.Stride == row {
		return img.Pix[start : start+row*h]
	}

	packed := make([]byte, row*h)
	for y := 0; y < h; y++ {
		offset := start + y*img.Stride
		copy(packed[y*row:(y+1)*row], img.Pix[offset:offset+row])
	}
	return packed
}

// ClearValue converts a straight-alpha color into the render pass clear value.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - wgpu.Color: components in [0, 1]
func ClearValue(c color.NRGBA) wgpu.Color {
	return wgpu.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// releaseFrame frees the frame texture objects. Caller must hold the mutex.
func (s *surfaceImpl) releaseFrame() {
	if s.bindGroup != nil {
		s.bindGroup.Release()
		s.bindGroup = nil
	}
	if s.frameView != nil {
		s.frameView.Release()
		s.frameView = nil
	}
	if s.frame != nil {
		s.frame.Release()
		s.frame = nil
	}
	s.frameW, s.frameH = 0, 0
}

func (s *surfaceImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true

	s.releaseFrame()
	if s.sampler != nil {
		s.sampler.Release()
	}
	if s.layout != nil {
		s.layout.Release()
	}
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	if s.shader != nil {
		s.shader.Release()
	}
	if s.queue != nil {
		s.queue.Release()
	}
	if s.device != nil {
		s.device.Release()
	}
	if s.adapter != nil {
		s.adapter.Release()
	}
	if s.surface != nil {
		s.surface.Release()
	}
	if s.instance != nil {
		s.instance.Release()
	}
}
