package delivery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

var now = time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)

func newDriver(t *testing.T, name, phone string) *delivery.Driver {
	t.Helper()
	p, err := kernel.NewPhone(phone)
	require.NoError(t, err)
	vehicle := "motorbike"
	d, err := delivery.NewDriver(kernel.NewUUID(), name, p, "s3cret", &vehicle, nil, now)
	require.NoError(t, err)
	return d
}

func TestNewDriver(t *testing.T) {
	d := newDriver(t, "  Peter Mwangi ", "0722000111")

	assert.Equal(t, "Peter Mwangi", d.Name())
	assert.Equal(t, "254722000111", d.Phone().String())
	assert.True(t, d.IsActive())
	assert.NotEqual(t, "s3cret", d.PasswordHash())
	assert.True(t, d.CheckPassword("s3cret"))
	assert.False(t, d.CheckPassword("wrong"))
	assert.Nil(t, d.LastPosition())
	require.NoError(t, d.Validate())
}

func TestNewDriver_CollectsAllErrors(t *testing.T) {
	_, err := delivery.NewDriver(kernel.UUID{}, " ", kernel.Phone{}, "abc", nil, nil, now)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, delivery.ErrPasswordTooShort)
}

func TestDriver_ZeroValueIsNotConstructed(t *testing.T) {
	var d delivery.Driver
	assert.ErrorIs(t, d.Validate(), delivery.ErrDriverIsNotConstructed)

	var nilDriver *delivery.Driver
	assert.ErrorIs(t, nilDriver.Validate(), delivery.ErrDriverIsNotConstructed)
}

func TestDriver_Update(t *testing.T) {
	d := newDriver(t, "Peter Mwangi", "0722000111")

	t.Run("applies valid changes", func(t *testing.T) {
		name := "Peter K. Mwangi"
		plate := " KMDA 123X "
		pw := "n3wpass"
		require.NoError(t, d.Update(delivery.Changes{Name: &name, VehiclePlate: &plate, Password: &pw}))

		assert.Equal(t, name, d.Name())
		require.NotNil(t, d.VehiclePlate())
		assert.Equal(t, "KMDA 123X", *d.VehiclePlate())
		assert.True(t, d.CheckPassword("n3wpass"))
	})

	t.Run("rejects invalid changes without applying any", func(t *testing.T) {
		name := "Someone Else"
		short := "ab"
		err := d.Update(delivery.Changes{Name: &name, Password: &short})

		assert.ErrorIs(t, err, delivery.ErrPasswordTooShort)
		assert.Equal(t, "Peter K. Mwangi", d.Name())
	})

	t.Run("deactivates through changes", func(t *testing.T) {
		inactive := false
		require.NoError(t, d.Update(delivery.Changes{IsActive: &inactive}))
		assert.False(t, d.IsActive())
		assert.ErrorIs(t, d.EnsureCanWork(), delivery.ErrDriverInactive)
	})
}

func TestDriver_RecordPositionOverwrites(t *testing.T) {
	d := newDriver(t, "Peter Mwangi", "0722000111")

	first, _ := kernel.NewLocation(-1.2921, 36.8219)
	second, _ := kernel.NewLocation(-1.3000, 36.8000)
	require.NoError(t, d.RecordPosition(first, now))
	require.NoError(t, d.RecordPosition(second, now.Add(time.Minute)))

	require.NotNil(t, d.LastPosition())
	assert.Equal(t, -1.3, d.LastPosition().Lat())
	assert.Equal(t, now.Add(time.Minute), *d.LastFixAt())

	snap := d.Snapshot()
	require.NotNil(t, snap.Lat)
	assert.Equal(t, 36.8, *snap.Lng)
	assert.Equal(t, "motorbike", *snap.Vehicle)
}

func TestRestoreDriver_KeepsHash(t *testing.T) {
	d := newDriver(t, "Peter Mwangi", "0722000111")

	restored, err := delivery.RestoreDriver(delivery.DriverState{
		ID:           d.ID(),
		Name:         d.Name(),
		Phone:        d.Phone(),
		PasswordHash: d.PasswordHash(),
		IsActive:     false,
		CreatedAt:    d.CreatedAt(),
	})
	require.NoError(t, err)

	assert.True(t, restored.CheckPassword("s3cret"))
	assert.False(t, restored.IsActive())
}
