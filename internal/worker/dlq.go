package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that run out of attempts, have no handler, or cannot be decoded end up
// in "dlq:<cola>" so an operator can inspect them with barberctl.
const prefijoDLQ = "dlq:"

// EntradaDLQ is a dead job plus why and when it died.
type EntradaDLQ struct {
	Cola     string          `json:"cola"`
	Tipo     string          `json:"tipo"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	Intentos int             `json:"intentos"`
	FalloEn  time.Time       `json:"fallo_en"`
}

func claveDLQ(cola string) string { return prefijoDLQ + cola }

// EnviarADLQ parks a failed job. A push failure is only logged: the job is
// already lost for the pool either way.
func EnviarADLQ(ctx context.Context, rdb redis.Cmdable, cola, tipo string, payload json.RawMessage, motivo string, intentos int) {
	entrada := EntradaDLQ{
		Cola:     cola,
		Tipo:     tipo,
		Payload:  payload,
		Motivo:   motivo,
		Intentos: intentos,
		FalloEn:  time.Now().UTC(),
	}
	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo serializar la entrada")
		return
	}
	if err := rdb.LPush(ctx, claveDLQ(cola), data).Err(); err != nil {
		log.Error().Err(err).Str("cola", cola).Str("tipo", tipo).Msg("dlq: no se pudo guardar el job")
		return
	}
	log.Warn().
		Str("cola", cola).
		Str("tipo", tipo).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("job enviado a la DLQ")
}

// LongitudDLQ returns how many dead jobs cola has.
func LongitudDLQ(ctx context.Context, rdb redis.Cmdable, cola string) (int64, error) {
	return rdb.LLen(ctx, claveDLQ(cola)).Result()
}

// ListarDLQ returns up to limite dead jobs of cola, newest first.
func ListarDLQ(ctx context.Context, rdb redis.Cmdable, cola string, limite int64) ([]EntradaDLQ, error) {
	if limite <= 0 {
		limite = 50
	}
	crudos, err := rdb.LRange(ctx, claveDLQ(cola), 0, limite-1).Result()
	if err != nil {
		return nil, err
	}
	entradas := make([]EntradaDLQ, 0, len(crudos))
	for _, c := range crudos {
		var e EntradaDLQ
		if err := json.Unmarshal([]byte(c), &e); err != nil {
			return nil, fmt.Errorf("dlq %s: entrada ilegible: %w", cola, err)
		}
		entradas = append(entradas, e)
	}
	return entradas, nil
}

// ReencolarDLQ moves every dead job of cola back to the live queue with its
// attempt counter reset. Returns how many were moved.
func ReencolarDLQ(ctx context.Context, rdb redis.Cmdable, cola string) (int, error) {
	movidos := 0
	for {
		crudo, err := rdb.RPop(ctx, claveDLQ(cola)).Result()
		if errors.Is(err, redis.Nil) {
			return movidos, nil
		}
		if err != nil {
			return movidos, err
		}
		var e EntradaDLQ
		if err := json.Unmarshal([]byte(crudo), &e); err != nil {
			log.Error().Err(err).Str("cola", cola).Msg("dlq: entrada ilegible descartada")
			continue
		}
		if err := push(ctx, rdb, cola, Job{ID: uuid.NewString(), Type: e.Tipo, Payload: e.Payload}); err != nil {
			return movidos, err
		}
		movidos++
	}
}
