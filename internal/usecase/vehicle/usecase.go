package vehicle

import (
	"context"

	"scrapgate/internal/domain/uow"
	domain "scrapgate/internal/domain/vehicle"
	"scrapgate/pkg/id"
)

type RegisterInput struct {
	TenantID      string
	VehicleNumber string
	DriverName    string
	DriverPhone   string
}

type Usecase struct {
	tx uow.UnitOfWork
}

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{tx: tx} }

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*domain.Vehicle, error) {
	v := &domain.Vehicle{
		VehicleID:     id.NewID32(),
		TenantID:      in.TenantID,
		VehicleNumber: in.VehicleNumber,
		DriverName:    in.DriverName,
		DriverPhone:   in.DriverPhone,
	}
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		return r.Vehicles.Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (u *Usecase) Get(ctx context.Context, tenantID, vehicleID string) (*domain.Vehicle, error) {
	var v *domain.Vehicle
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		found, err := r.Vehicles.GetByVehicleID(ctx, tenantID, vehicleID)
		if err != nil {
			return err
		}
		v = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// VisitHistory returns the vehicle's completed yard passes, newest first.
func (u *Usecase) VisitHistory(ctx context.Context, tenantID, vehicleID string) ([]domain.VisitRecord, error) {
	var visits []domain.VisitRecord
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		v, err := r.Vehicles.GetByVehicleID(ctx, tenantID, vehicleID)
		if err != nil {
			return err
		}
		visits, err = r.Vehicles.ListVisits(ctx, v.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return visits, nil
}
