package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"barberia/internal/infra"
	"barberia/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	enviados []infra.Correo
	err      error
}

func (f *fakeMailer) Enviar(c infra.Correo) error {
	if f.err != nil {
		return f.err
	}
	f.enviados = append(f.enviados, c)
	return nil
}

func payload(t *testing.T, p worker.EmailJobPayload) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(p)
	require.NoError(t, err)
	return b
}

func TestEmailWorker_Envia(t *testing.T) {
	m := &fakeMailer{}
	w := worker.NewEmailWorker(m)

	err := w.Process(context.Background(), payload(t, worker.EmailJobPayload{
		ToEmail: "ana@example.com", Subject: "Cita confirmada", Body: "Hola", PDFPath: "/tmp/venta_1.pdf",
	}))

	require.NoError(t, err)
	require.Len(t, m.enviados, 1)
	assert.Equal(t, "ana@example.com", m.enviados[0].Para)
	assert.Equal(t, "/tmp/venta_1.pdf", m.enviados[0].Adjunto)
}

func TestEmailWorker_FallosPermanentes(t *testing.T) {
	w := worker.NewEmailWorker(&fakeMailer{})

	err := w.Process(context.Background(), json.RawMessage(`{"to_email": 5}`))
	assert.ErrorIs(t, err, worker.ErrPermanente)

	err = w.Process(context.Background(), payload(t, worker.EmailJobPayload{Subject: "x"}))
	assert.ErrorIs(t, err, worker.ErrPermanente)

	deshabilitado := worker.NewEmailWorker(&fakeMailer{err: infra.ErrMailerDeshabilitado})
	err = deshabilitado.Process(context.Background(), payload(t, worker.EmailJobPayload{ToEmail: "a@b.co"}))
	assert.ErrorIs(t, err, worker.ErrPermanente)
}

func TestEmailWorker_CircuitoAbiertoSeReintenta(t *testing.T) {
	w := worker.NewEmailWorker(&fakeMailer{err: infra.ErrBreakerAbierto})

	err := w.Process(context.Background(), payload(t, worker.EmailJobPayload{ToEmail: "a@b.co"}))

	require.Error(t, err)
	assert.False(t, errors.Is(err, worker.ErrPermanente))
	assert.Equal(t, worker.ResultadoReintento, worker.Decidir(err, 1, 3))
}

func TestDecidir(t *testing.T) {
	falla := errors.New("smtp caido")

	assert.Equal(t, worker.ResultadoOK, worker.Decidir(nil, 1, 3))
	assert.Equal(t, worker.ResultadoReintento, worker.Decidir(falla, 2, 3))
	assert.Equal(t, worker.ResultadoDLQ, worker.Decidir(falla, 3, 3))
	assert.Equal(t, worker.ResultadoDLQ, worker.Decidir(worker.ErrPermanente, 1, 3))
}
