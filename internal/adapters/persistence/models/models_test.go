package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeFromDateOfBirth(t *testing.T) {
	now := date(2026, time.September, 1)

	tests := []struct {
		name string
		dob  *time.Time
		want *int
	}{
		{"nil dob", nil, nil},
		{"birthday already passed this year", ptr(date(1990, time.March, 15)), intPtr(36)},
		{"birthday later this year", ptr(date(1990, time.December, 1)), intPtr(35)},
		{"birthday today", ptr(date(1990, time.September, 1)), intPtr(36)},
		{"birthday tomorrow", ptr(date(1990, time.September, 2)), intPtr(35)},
		{"born this year", ptr(date(2026, time.January, 10)), intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeFromDateOfBirth(tt.dob, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestClientBeforeSaveRecomputesAge(t *testing.T) {
	stale := 99
	c := &Client{DateOfBirth: ptr(date(2000, time.January, 1)), Age: &stale}

	assert.NoError(t, c.BeforeSave(nil))
	if assert.NotNil(t, c.Age) {
		assert.NotEqual(t, 99, *c.Age)
	}

	c.DateOfBirth = nil
	assert.NoError(t, c.BeforeSave(nil))
	assert.Nil(t, c.Age)
}

func TestIsEnumValue(t *testing.T) {
	assert.True(t, IsEnumValue(WishedVisaValues, "retirement_visa"))
	assert.False(t, IsEnumValue(WishedVisaValues, "retiremen"))
	assert.True(t, IsEnumValue(ExistingVisaValues, "entry_stamp_30_day"))
	assert.False(t, IsEnumValue(WishedVisaValues, "entry_stamp_30_day"))
}

func TestDocumentFieldRoundTrip(t *testing.T) {
	p := &Property{}
	url := "https://bucket.s3.ap-southeast-1.amazonaws.com/properties/1/deed.pdf"

	for _, field := range DocumentFields {
		p.SetDocumentURL(field, &url)
		if assert.NotNil(t, p.DocumentURL(field), field) {
			assert.Equal(t, url, *p.DocumentURL(field))
		}
		p.SetDocumentURL(field, nil)
		assert.Nil(t, p.DocumentURL(field), field)
	}
}

func ptr(t time.Time) *time.Time { return &t }
func intPtr(i int) *int          { return &i }
