package notificacion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"barberia/internal/acceso"
	"barberia/internal/notificacion"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func nuevoHub() *notificacion.Hub {
	reg := acceso.NuevoRegistro(acceso.DefinicionesPorDefecto())
	return notificacion.NuevoHub(reg, func(*http.Request) bool { return true })
}

func TestDestinatario_FiltraPorModulo(t *testing.T) {
	hub := nuevoHub()
	barbero := acceso.Actor{UsuarioID: 2, Rol: acceso.RolBarbero}
	admin := acceso.Actor{UsuarioID: 1, Rol: acceso.RolAdministrador}

	compra := notificacion.Mensaje{Mensaje: "Compra registrada", Modulo: acceso.ModuloCompras}
	assert.False(t, hub.Destinatario(barbero, compra))
	assert.True(t, hub.Destinatario(admin, compra))
}

func TestDestinatario_ClienteSoloLosPropios(t *testing.T) {
	hub := nuevoHub()
	cliente := acceso.Actor{UsuarioID: 5, Rol: acceso.RolCliente, ClienteID: uintPtr(7)}

	propia := notificacion.Mensaje{Modulo: acceso.ModuloCitas, ClienteID: uintPtr(7)}
	ajena := notificacion.Mensaje{Modulo: acceso.ModuloCitas, ClienteID: uintPtr(8)}
	sinDuenio := notificacion.Mensaje{Modulo: acceso.ModuloCitas}

	assert.True(t, hub.Destinatario(cliente, propia))
	assert.False(t, hub.Destinatario(cliente, ajena))
	assert.False(t, hub.Destinatario(cliente, sinDuenio))
}

func TestHub_EntregaPorWebsocket(t *testing.T) {
	hub := nuevoHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	registrado := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := acceso.Actor{UsuarioID: 3, Rol: acceso.RolRecepcionista}
		if err := hub.Servir(w, r, actor); err == nil {
			registrado <- struct{}{}
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-registrado:
	case <-time.After(2 * time.Second):
		t.Fatal("la conexion no se registro")
	}

	hub.Publicar(notificacion.Mensaje{Mensaje: "Compra registrada", Modulo: acceso.ModuloCompras})
	hub.Publicar(notificacion.Mensaje{Mensaje: "Cita confirmada", Severidad: notificacion.Exito, Modulo: acceso.ModuloCitas, RegistroID: 4})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got notificacion.Mensaje
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Cita confirmada", got.Mensaje)
	assert.Equal(t, uint(4), got.RegistroID)
}
