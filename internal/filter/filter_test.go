package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

func date(day int) time.Time {
	return time.Date(2022, 3, day, 0, 0, 0, 0, time.UTC)
}

func fixture() []models.Delivery {
	return []models.Delivery{
		{OrderID: "1", OrderDate: date(1), Weather: "Sunny", Traffic: "Low", Vehicle: "van", Area: "Urban", Category: "Toys"},
		{OrderID: "2", OrderDate: date(2), Weather: "Stormy", Traffic: "Jam", Vehicle: "scooter", Area: "Urban", Category: "Grocery"},
		{OrderID: "3", OrderDate: date(3).Add(18 * time.Hour), Weather: "Sunny", Traffic: "High", Vehicle: "van", Area: "Metropolitian", Category: "Toys"},
		{OrderID: "4", OrderDate: date(5), Weather: "Fog", Traffic: "Low", Vehicle: "motorcycle", Area: "Semi-Urban", Category: "Books"},
	}
}

func ids(records []models.Delivery) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.OrderID
	}
	return out
}

func TestApplyAllValues(t *testing.T) {
	records := fixture()
	got := Apply(records, models.DeliveryFilter{})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestApplyCategoricalSets(t *testing.T) {
	records := fixture()

	got := Apply(records, models.DeliveryFilter{Weather: []string{"Sunny"}})
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got = Apply(records, models.DeliveryFilter{
		Weather: []string{"Sunny", "Fog"},
		Vehicle: []string{"van"},
	})
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got = Apply(records, models.DeliveryFilter{Area: []string{"Urban"}, Category: []string{"Grocery"}})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestApplyEmptySelection(t *testing.T) {
	got := Apply(fixture(), models.DeliveryFilter{Traffic: []string{}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestApplyDateRangeInclusive(t *testing.T) {
	records := fixture()

	// the end day includes orders later on that day
	got := Apply(records, models.DeliveryFilter{StartDate: date(2), EndDate: date(3)})
	assert.Equal(t, []string{"2", "3"}, ids(got))

	got = Apply(records, models.DeliveryFilter{StartDate: date(5)})
	assert.Equal(t, []string{"4"}, ids(got))

	got = Apply(records, models.DeliveryFilter{EndDate: date(1)})
	assert.Equal(t, []string{"1"}, ids(got))

	got = Apply(records, models.DeliveryFilter{StartDate: date(4), EndDate: date(4)})
	assert.Empty(t, got)
}

func TestApplyIsPureAndIdempotent(t *testing.T) {
	records := fixture()
	f := models.DeliveryFilter{Weather: []string{"Sunny"}, StartDate: date(1), EndDate: date(3)}

	once := Apply(records, f)
	twice := Apply(once, f)
	assert.Equal(t, once, twice)
	assert.Equal(t, fixture(), records)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(models.DeliveryFilter{}))
	assert.NoError(t, Validate(models.DeliveryFilter{StartDate: date(3), EndDate: date(3)}))
	assert.ErrorIs(t, Validate(models.DeliveryFilter{StartDate: date(4), EndDate: date(3)}), ErrInvalidDateRange)
}

func TestOptions(t *testing.T) {
	opts := Options(fixture())

	assert.Equal(t, "2022-03-01", opts.MinDate)
	assert.Equal(t, "2022-03-05", opts.MaxDate)
	assert.Equal(t, []string{"Sunny", "Stormy", "Fog"}, opts.Weather)
	assert.Equal(t, []string{"Low", "Jam", "High"}, opts.Traffic)
	assert.Equal(t, []string{"van", "scooter", "motorcycle"}, opts.Vehicle)
	assert.Equal(t, []string{"Urban", "Metropolitian", "Semi-Urban"}, opts.Area)
	assert.Equal(t, []string{"Toys", "Grocery", "Books"}, opts.Category)

	empty := Options(nil)
	require.NotNil(t, empty.Weather)
	assert.Empty(t, empty.Weather)
	assert.Equal(t, "", empty.MinDate)
}

func TestOptionsOmitBlankValues(t *testing.T) {
	records := append(fixture(), models.Delivery{OrderID: "5", OrderDate: date(2), Weather: "", Traffic: "Low", Vehicle: "van", Area: "Urban", Category: "Toys"})

	opts := Options(records)
	assert.Equal(t, []string{"Sunny", "Stormy", "Fog"}, opts.Weather)

	// unfiltered keeps the blank row
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(Apply(records, models.DeliveryFilter{})))

	// selecting every listed option drops it
	got := Apply(records, models.DeliveryFilter{Weather: opts.Weather})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}
