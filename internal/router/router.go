package router

import (
	"time"

	"barberia/internal/acceso"
	"barberia/internal/config"
	"barberia/internal/handler"
	"barberia/internal/infra"
	"barberia/internal/middleware"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/service"
	"barberia/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built by the composition root. Redis,
// Hub, Cola and MailCB are optional: a nil value disables the catalog cache,
// the notification socket, e-mail and the breaker report respectively.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    redis.Cmdable
	Registro *acceso.Registro
	Sink     notificacion.Sink
	Hub      *notificacion.Hub
	Cola     worker.EmailQueue
	MailCB   *infra.Breaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg, reg := d.Config, d.Registro
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	sink := d.Sink
	if sink == nil {
		sink = notificacion.Nop{}
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	store := repository.NewStore(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(store, reg, cfg)
	rolSvc := service.NewRolService(store, reg, sink)
	servicioSvc := service.NewServicioService(store, reg, sink, d.Redis)
	citaSvc := service.NewCitaService(store, reg, sink, d.Cola, cfg.BusinessName)
	reservaSvc := service.NewReservaService(store, reg, sink, d.Cola, cfg.BusinessName)
	clienteSvc := service.NewClienteService(store, reg, sink)
	temporalSvc := service.NewClienteTemporalService(store, reg, sink)
	empleadoSvc := service.NewEmpleadoService(store, reg, sink)
	proveedorSvc := service.NewProveedorService(store, reg, sink)
	productoSvc := service.NewProductoService(store, reg, sink)
	compraSvc := service.NewCompraService(store, reg, sink)
	ventaSvc := service.NewVentaService(store, reg, sink, d.Cola, cfg.BusinessName, cfg.PDFStoragePath)
	devolucionSvc := service.NewDevolucionService(store, reg, sink)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	rolesH := handler.NewRolesHandler(rolSvc)
	serviciosH := handler.NewServiciosHandler(servicioSvc)
	citasH := handler.NewCitasHandler(citaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	temporalesH := handler.NewTemporalesHandler(temporalSvc)
	empleadosH := handler.NewEmpleadosHandler(empleadoSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	devolucionesH := handler.NewDevolucionesHandler(devolucionSvc)
	publicoH := handler.NewPublicoHandler(servicioSvc, reservaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.MailCB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Booking page, no auth required
	publico := r.Group("/v1/publico")
	{
		publico.GET("/servicios", publicoH.Catalogo)
		publico.POST("/reservas", middleware.ReservaRateLimiter(), publicoH.Reservar)
	}

	if d.Hub != nil {
		r.GET("/v1/ws", handler.NewNotificacionesHandler(d.Hub, store, cfg.JWTSecret).Conectar)
	}

	// Protected routes. Every route declares the module and operation it
	// needs; the registry is consulted per request.
	permiso := func(m acceso.Modulo, op acceso.Operacion) gin.HandlerFunc {
		return middleware.RequireModulo(reg, m, op)
	}
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/auth/sesion", authH.Sesion)

		citas := v1.Group("/citas")
		{
			citas.POST("", permiso(acceso.ModuloCitas, acceso.OpCrear), citasH.Crear)
			citas.GET("", permiso(acceso.ModuloCitas, acceso.OpLeer), citasH.Listar)
			citas.GET("/:id", permiso(acceso.ModuloCitas, acceso.OpLeer), citasH.Obtener)
			citas.PUT("/:id", permiso(acceso.ModuloCitas, acceso.OpActualizar), citasH.Actualizar)
			citas.POST("/:id/confirmar", permiso(acceso.ModuloCitas, acceso.OpActualizar), citasH.Confirmar)
			citas.POST("/:id/completar", permiso(acceso.ModuloCitas, acceso.OpActualizar), citasH.Completar)
			citas.POST("/:id/cancelar", permiso(acceso.ModuloCitas, acceso.OpActualizar), citasH.Cancelar)
			citas.DELETE("/:id", permiso(acceso.ModuloCitas, acceso.OpEliminar), citasH.Eliminar)
		}

		servicios := v1.Group("/servicios")
		{
			servicios.POST("", permiso(acceso.ModuloServicios, acceso.OpCrear), serviciosH.Crear)
			servicios.GET("", permiso(acceso.ModuloServicios, acceso.OpLeer), serviciosH.Listar)
			servicios.GET("/:id", permiso(acceso.ModuloServicios, acceso.OpLeer), serviciosH.Obtener)
			servicios.PUT("/:id", permiso(acceso.ModuloServicios, acceso.OpActualizar), serviciosH.Actualizar)
			servicios.DELETE("/:id", permiso(acceso.ModuloServicios, acceso.OpEliminar), serviciosH.Eliminar)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", permiso(acceso.ModuloClientes, acceso.OpCrear), clientesH.Crear)
			clientes.GET("", permiso(acceso.ModuloClientes, acceso.OpLeer), clientesH.Listar)
			clientes.GET("/:id", permiso(acceso.ModuloClientes, acceso.OpLeer), clientesH.Obtener)
			clientes.PUT("/:id", permiso(acceso.ModuloClientes, acceso.OpActualizar), clientesH.Actualizar)
			clientes.DELETE("/:id", permiso(acceso.ModuloClientes, acceso.OpEliminar), clientesH.Eliminar)
		}

		temporales := v1.Group("/clientes-temporales")
		{
			temporales.GET("", permiso(acceso.ModuloClientes, acceso.OpLeer), temporalesH.Listar)
			temporales.DELETE("/:id", permiso(acceso.ModuloClientes, acceso.OpEliminar), temporalesH.Eliminar)
			temporales.POST("/:id/promover", permiso(acceso.ModuloClientes, acceso.OpCrear), temporalesH.Promover)
		}

		empleados := v1.Group("/empleados")
		{
			empleados.POST("", permiso(acceso.ModuloEmpleados, acceso.OpCrear), empleadosH.Crear)
			empleados.GET("", permiso(acceso.ModuloEmpleados, acceso.OpLeer), empleadosH.Listar)
			empleados.GET("/:id", permiso(acceso.ModuloEmpleados, acceso.OpLeer), empleadosH.Obtener)
			empleados.PUT("/:id", permiso(acceso.ModuloEmpleados, acceso.OpActualizar), empleadosH.Actualizar)
			empleados.DELETE("/:id", permiso(acceso.ModuloEmpleados, acceso.OpEliminar), empleadosH.Desactivar)
			empleados.PATCH("/:id/reactivar", permiso(acceso.ModuloEmpleados, acceso.OpActualizar), empleadosH.Reactivar)
		}

		prov := v1.Group("/proveedores")
		{
			prov.POST("", permiso(acceso.ModuloProveedores, acceso.OpCrear), proveedoresH.Crear)
			prov.GET("", permiso(acceso.ModuloProveedores, acceso.OpLeer), proveedoresH.Listar)
			prov.GET("/:id", permiso(acceso.ModuloProveedores, acceso.OpLeer), proveedoresH.Obtener)
			prov.PUT("/:id", permiso(acceso.ModuloProveedores, acceso.OpActualizar), proveedoresH.Actualizar)
			prov.DELETE("/:id", permiso(acceso.ModuloProveedores, acceso.OpEliminar), proveedoresH.Desactivar)
			prov.PATCH("/:id/reactivar", permiso(acceso.ModuloProveedores, acceso.OpActualizar), proveedoresH.Reactivar)
		}

		prods := v1.Group("/productos")
		{
			prods.POST("", permiso(acceso.ModuloProductos, acceso.OpCrear), productosH.Crear)
			prods.GET("", permiso(acceso.ModuloProductos, acceso.OpLeer), productosH.Listar)
			prods.GET("/:id", permiso(acceso.ModuloProductos, acceso.OpLeer), productosH.Obtener)
			prods.PUT("/:id", permiso(acceso.ModuloProductos, acceso.OpActualizar), productosH.Actualizar)
			prods.DELETE("/:id", permiso(acceso.ModuloProductos, acceso.OpEliminar), productosH.Desactivar)
			prods.PATCH("/:id/reactivar", permiso(acceso.ModuloProductos, acceso.OpActualizar), productosH.Reactivar)
		}

		compras := v1.Group("/compras")
		{
			compras.POST("", permiso(acceso.ModuloCompras, acceso.OpCrear), comprasH.Registrar)
			compras.GET("", permiso(acceso.ModuloCompras, acceso.OpLeer), comprasH.Listar)
			compras.GET("/:id", permiso(acceso.ModuloCompras, acceso.OpLeer), comprasH.Obtener)
			compras.POST("/:id/anular", permiso(acceso.ModuloCompras, acceso.OpEliminar), comprasH.Anular)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", permiso(acceso.ModuloVentas, acceso.OpCrear), ventasH.Registrar)
			ventas.GET("", permiso(acceso.ModuloVentas, acceso.OpLeer), ventasH.Listar)
			ventas.GET("/:id", permiso(acceso.ModuloVentas, acceso.OpLeer), ventasH.Obtener)
			ventas.GET("/:id/comprobante", permiso(acceso.ModuloVentas, acceso.OpLeer), ventasH.Comprobante)
			ventas.POST("/:id/anular", permiso(acceso.ModuloVentas, acceso.OpEliminar), ventasH.Anular)
		}

		devoluciones := v1.Group("/devoluciones")
		{
			devoluciones.POST("", permiso(acceso.ModuloDevoluciones, acceso.OpCrear), devolucionesH.Registrar)
			devoluciones.GET("", permiso(acceso.ModuloDevoluciones, acceso.OpLeer), devolucionesH.Listar)
		}

		roles := v1.Group("/roles")
		{
			roles.POST("", permiso(acceso.ModuloRoles, acceso.OpCrear), rolesH.Crear)
			roles.GET("", permiso(acceso.ModuloRoles, acceso.OpLeer), rolesH.Listar)
			roles.GET("/:id", permiso(acceso.ModuloRoles, acceso.OpLeer), rolesH.Obtener)
			roles.PUT("/:id", permiso(acceso.ModuloRoles, acceso.OpActualizar), rolesH.Actualizar)
			roles.PATCH("/:id/estado", permiso(acceso.ModuloRoles, acceso.OpActualizar), rolesH.CambiarEstado)
			roles.DELETE("/:id", permiso(acceso.ModuloRoles, acceso.OpEliminar), rolesH.Eliminar)
		}

		usuarios := v1.Group("/usuarios")
		{
			usuarios.POST("", permiso(acceso.ModuloUsuarios, acceso.OpCrear), usuariosH.Crear)
			usuarios.GET("", permiso(acceso.ModuloUsuarios, acceso.OpLeer), usuariosH.Listar)
			usuarios.PUT("/:id", permiso(acceso.ModuloUsuarios, acceso.OpActualizar), usuariosH.Actualizar)
			usuarios.DELETE("/:id", permiso(acceso.ModuloUsuarios, acceso.OpEliminar), usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", permiso(acceso.ModuloUsuarios, acceso.OpActualizar), usuariosH.Reactivar)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
