package repository

import (
	"context"
	"time"

	"barberia/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var estadosActivos = []model.EstadoCita{model.CitaPendiente, model.CitaConfirmada}

type CitaRepository interface {
	Create(ctx context.Context, c *model.Cita) error
	FindByID(ctx context.Context, id uint) (*model.Cita, error)
	List(ctx context.Context) ([]model.Cita, error)
	Update(ctx context.Context, c *model.Cita) error
	Delete(ctx context.Context, id uint) error

	// HorarioOcupado reports whether the employee already holds an active
	// appointment at fecha/hora, ignoring excluirID.
	HorarioOcupado(ctx context.Context, empleadoID uint, fecha, hora string, excluirID uint) (bool, error)
	ContarActivasPorTemporal(ctx context.Context, temporalID uint) (int64, error)
	ContarActivasPorEmpleado(ctx context.Context, empleadoID uint) (int64, error)
	ContarPorServicio(ctx context.Context, servicioID uint) (int64, error)
	// ReasignarTemporal moves every appointment of a walk-in to a permanent
	// client and clears the walk-in reference. Returns the rows touched.
	ReasignarTemporal(ctx context.Context, temporalID, clienteID uint) (int64, error)
	// EliminarTerminalesPorTemporal removes a walk-in's completed and
	// cancelled appointments and returns how many were removed.
	EliminarTerminalesPorTemporal(ctx context.Context, temporalID uint) (int64, error)
	// PendientesDeRecordatorio lists confirmed appointments on fecha that have
	// not been reminded yet, oldest first, at most limite rows.
	PendientesDeRecordatorio(ctx context.Context, fecha string, limite int) ([]model.Cita, error)
	MarcarRecordatorio(ctx context.Context, id uint, en time.Time) error
}

type citaRepo struct{ db *gorm.DB }

func NewCitaRepository(db *gorm.DB) CitaRepository { return &citaRepo{db: db} }

func (r *citaRepo) conRelaciones(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("ClienteTemporal").
		Preload("Servicio").
		Preload("Empleado")
}

func (r *citaRepo) Create(ctx context.Context, c *model.Cita) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *citaRepo) FindByID(ctx context.Context, id uint) (*model.Cita, error) {
	var c model.Cita
	err := r.conRelaciones(ctx).First(&c, id).Error
	return &c, err
}

func (r *citaRepo) List(ctx context.Context) ([]model.Cita, error) {
	var citas []model.Cita
	err := r.conRelaciones(ctx).Order("id asc").Find(&citas).Error
	return citas, err
}

func (r *citaRepo) Update(ctx context.Context, c *model.Cita) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *citaRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Cita{}, id).Error
}

func (r *citaRepo) HorarioOcupado(ctx context.Context, empleadoID uint, fecha, hora string, excluirID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Cita{}).
		Where("empleado_id = ? AND fecha = ? AND hora = ? AND estado IN ?", empleadoID, fecha, hora, estadosActivos)
	if excluirID != 0 {
		q = q.Where("id <> ?", excluirID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *citaRepo) ContarActivasPorTemporal(ctx context.Context, temporalID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cita{}).
		Where("cliente_temporal_id = ? AND estado IN ?", temporalID, estadosActivos).
		Count(&n).Error
	return n, err
}

func (r *citaRepo) ContarActivasPorEmpleado(ctx context.Context, empleadoID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cita{}).
		Where("empleado_id = ? AND estado IN ?", empleadoID, estadosActivos).
		Count(&n).Error
	return n, err
}

func (r *citaRepo) ContarPorServicio(ctx context.Context, servicioID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cita{}).Where("servicio_id = ?", servicioID).Count(&n).Error
	return n, err
}

func (r *citaRepo) ReasignarTemporal(ctx context.Context, temporalID, clienteID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Cita{}).
		Where("cliente_temporal_id = ?", temporalID).
		Updates(map[string]any{"cliente_id": clienteID, "cliente_temporal_id": nil})
	return res.RowsAffected, res.Error
}

func (r *citaRepo) EliminarTerminalesPorTemporal(ctx context.Context, temporalID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cliente_temporal_id = ? AND estado NOT IN ?", temporalID, estadosActivos).
		Delete(&model.Cita{})
	return res.RowsAffected, res.Error
}

func (r *citaRepo) PendientesDeRecordatorio(ctx context.Context, fecha string, limite int) ([]model.Cita, error) {
	var citas []model.Cita
	err := r.conRelaciones(ctx).
		Where("fecha = ? AND estado = ? AND recordatorio_en IS NULL", fecha, model.CitaConfirmada).
		Order("id asc").
		Limit(limite).
		Find(&citas).Error
	return citas, err
}

func (r *citaRepo) MarcarRecordatorio(ctx context.Context, id uint, en time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Cita{}).Where("id = ?", id).Update("recordatorio_en", en).Error
}
