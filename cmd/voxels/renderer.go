package main

import (
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/internal/openglhelper"
	"github.com/leterax/voxelstream/pkg/config"
	"github.com/leterax/voxelstream/pkg/game"
	"github.com/leterax/voxelstream/pkg/render"
	"github.com/leterax/voxelstream/pkg/voxel"
)

// Reach of block edits in blocks
const editReach = 8

var skyColor = mgl32.Vec4{0.53, 0.72, 0.92, 1.0}

// Blocks selectable with the number keys
var hotbar = []voxel.BlockType{
	voxel.Stone,
	voxel.Dirt,
	voxel.Grass,
	voxel.Cobblestone,
	voxel.OakPlanks,
	voxel.OakLog,
	voxel.Glass,
	voxel.OakLeaves,
	voxel.StoneBricks,
}

// App owns the window and runs the frame loop
type App struct {
	window  *openglhelper.Window
	camera  *render.Camera
	backend *openglhelper.ChunkBackend
	overlay *openglhelper.Overlay
	buffers *render.ChunkBufferManager
	world   *game.World
	logger  *log.Logger

	selected voxel.BlockType
	title    string
	showHUD  bool

	// Timing
	lastFrameTime float64
	deltaTime     float32
	fpsTime       float64
	frames        int
	lastStats     game.DrawStats
}

func newApp(cfg config.Config, terrain *voxel.Terrain, metrics *game.Metrics) (*App, error) {
	window, err := openglhelper.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, cfg.Window.VSync,
		log.New(os.Stdout, "[gl] ", log.LstdFlags|log.Lmicroseconds))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fogEnd := float32(cfg.World.RenderDistanceChunks * voxel.Width)
	backend, err := openglhelper.NewChunkBackend(skyColor.Vec3(), max(fogEnd, voxel.Width))
	if err != nil {
		window.Close()
		return nil, fmt.Errorf("failed to create chunk backend: %w", err)
	}

	overlay, err := openglhelper.NewOverlay()
	if err != nil {
		backend.Delete()
		window.Close()
		return nil, fmt.Errorf("failed to create overlay: %w", err)
	}

	camera := render.NewCamera(mgl32.Vec3{8, float32(voxel.Height) * 0.8, 8})
	camera.SetRotation(render.DefaultYaw, -25)
	camera.UpdateProjectionMatrix(window.Size())

	buffers := render.NewChunkBufferManager(backend, cfg.Render.SortDistance)
	world := game.NewWorld(cfg.World, terrain,
		game.WithSink(buffers),
		game.WithMetrics(metrics),
		game.WithLogger(log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds)),
	)

	a := &App{
		window:   window,
		camera:   camera,
		backend:  backend,
		overlay:  overlay,
		buffers:  buffers,
		world:    world,
		logger:   log.New(os.Stdout, "[voxels] ", log.LstdFlags|log.Lmicroseconds),
		selected: hotbar[0],
		title:    cfg.Window.Title,
		showHUD:  true,
	}

	// Set up callbacks
	window.GLFWWindow().SetKeyCallback(a.keyCallback)
	window.GLFWWindow().SetCursorPosCallback(a.cursorPosCallback)
	window.GLFWWindow().SetMouseButtonCallback(a.mouseButtonCallback)
	window.GLFWWindow().SetScrollCallback(a.scrollCallback)
	window.GLFWWindow().SetFramebufferSizeCallback(a.framebufferSizeCallback)

	window.SetMouseCaptured(true)
	return a, nil
}

// Run starts the main loop and cleans up when the window closes
func (a *App) Run() {
	a.lastFrameTime = glfw.GetTime()
	a.fpsTime = a.lastFrameTime

	for !a.window.ShouldClose() {
		// Calculate delta time
		currentTime := glfw.GetTime()
		a.deltaTime = float32(currentTime - a.lastFrameTime)
		a.lastFrameTime = currentTime

		a.processInput()
		a.world.Update(a.camera)
		a.render()

		a.window.SwapBuffers()
		a.window.PollEvents()

		a.frames++
		if currentTime-a.fpsTime >= 1 {
			a.updateStats(float64(a.frames) / (currentTime - a.fpsTime))
			a.frames, a.fpsTime = 0, currentTime
		}
	}

	a.Cleanup()
}

func (a *App) processInput() {
	var forward, right, up float32
	if a.window.KeyPressed(glfw.KeyW) {
		forward++
	}
	if a.window.KeyPressed(glfw.KeyS) {
		forward--
	}
	if a.window.KeyPressed(glfw.KeyD) {
		right++
	}
	if a.window.KeyPressed(glfw.KeyA) {
		right--
	}
	if a.window.KeyPressed(glfw.KeySpace) {
		up++
	}
	if a.window.KeyPressed(glfw.KeyLeftShift) {
		up--
	}

	speed := float32(render.DefaultMoveSpeed)
	if a.window.KeyPressed(glfw.KeyLeftControl) {
		speed *= 4
	}
	a.camera.SetMoveSpeed(speed)
	a.camera.ProcessMovement(forward, right, up, a.deltaTime)
}

func (a *App) render() {
	a.window.Clear(skyColor)

	drawer := &passDrawer{
		buffers: a.buffers,
		backend: a.backend,
		view:    a.camera.ViewMatrix(),
		proj:    a.camera.ProjectionMatrix(),
	}
	a.lastStats = a.world.Draw(a.camera, drawer)
	a.backend.End()

	if a.showHUD {
		width, height := a.window.Size()
		a.overlay.Draw(mgl32.Vec2{8, 8}, width, height)
	}
}

// updateStats refreshes the window title and the debug panel once a second
func (a *App) updateStats(fps float64) {
	a.window.SetTitle(fmt.Sprintf("%s | %.0f fps", a.title, fps))
	if !a.showHUD {
		return
	}

	vertices, indices := a.buffers.Totals()
	pos := a.camera.Position()
	chunk := voxel.ChunkAt(pos)
	a.overlay.SetImage(render.DrawHUD([]string{
		fmt.Sprintf("%.0f fps", fps),
		fmt.Sprintf("xyz %.1f %.1f %.1f  chunk %v", pos.X(), pos.Y(), pos.Z(), chunk),
		fmt.Sprintf("chunks %d loaded, %d visible, %d culled", a.lastStats.Loaded, a.lastStats.Visible, a.lastStats.Culled),
		fmt.Sprintf("draws %d opaque, %d transparent (%d sorted)", a.lastStats.Opaque, a.lastStats.Transparent, a.lastStats.Sorted),
		fmt.Sprintf("queued %d  meshing %d", a.world.QueuedChunks(), a.world.PendingMeshes()),
		fmt.Sprintf("%d vertices  %d indices", vertices, indices),
		fmt.Sprintf("block [%d] %s", slices.Index(hotbar, a.selected)+1, a.selected),
	}))
}

// Cleanup frees all resources
func (a *App) Cleanup() {
	a.world.Close()
	a.buffers.Cleanup()
	a.backend.Delete()
	a.overlay.Delete()
	a.window.Close()
	a.logger.Printf("Shut down")
}

// passDrawer switches the backend between the opaque and transparent pass
// the first time a draw of each kind arrives.
type passDrawer struct {
	buffers    *render.ChunkBufferManager
	backend    *openglhelper.ChunkBackend
	view, proj mgl32.Mat4

	opaqueBegun, transparentBegun bool
}

func (d *passDrawer) DrawOpaque(coord voxel.ChunkCoord) bool {
	if !d.opaqueBegun {
		d.backend.Begin(d.view, d.proj, false)
		d.opaqueBegun = true
	}
	return d.buffers.DrawOpaque(coord)
}

func (d *passDrawer) DrawTransparent(coord voxel.ChunkCoord, camera mgl32.Vec3) (drawn, sorted bool) {
	if !d.transparentBegun {
		d.backend.Begin(d.view, d.proj, true)
		d.transparentBegun = true
	}
	return d.buffers.DrawTransparent(coord, camera)
}

// Callback functions
func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch {
	case key == glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case key == glfw.KeyF3:
		a.showHUD = !a.showHUD
	case key == glfw.KeyC:
		// Toggle mouse capture
		a.window.ToggleMouseCaptured()
		a.camera.ResetMouseState()
	case key >= glfw.Key1 && key <= glfw.Key9:
		if i := int(key - glfw.Key1); i < len(hotbar) {
			a.selected = hotbar[i]
		}
	}
}

func (a *App) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	if a.window.IsMouseCaptured() {
		a.camera.HandleMouseMovement(xpos, ypos)
	}
}

func (a *App) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press || !a.window.IsMouseCaptured() {
		return
	}

	hit, before, ok := a.world.Raycast(a.camera.Position(), a.camera.FrontVector(), editReach)
	if !ok {
		return
	}
	switch button {
	case glfw.MouseButtonLeft:
		a.world.BreakBlock(hit)
	case glfw.MouseButtonRight:
		if before != voxel.BlockPosAt(a.camera.Position()) {
			a.world.PlaceBlock(before, a.selected)
		}
	}
}

func (a *App) scrollCallback(_ *glfw.Window, _, yoffset float64) {
	a.camera.HandleMouseScroll(yoffset)
}

func (a *App) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	if width == 0 || height == 0 {
		return
	}
	a.window.OnResize(width, height)
	a.camera.UpdateProjectionMatrix(width, height)
}
