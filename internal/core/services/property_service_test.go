package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPropertyFixture() (*PropertyService, *fakePropertyRepo, *fakeClientRepo, *fakeUploader) {
	propertyRepo := newFakePropertyRepo()
	clientRepo := newFakeClientRepo()
	uploader := &fakeUploader{}
	svc := NewPropertyService(propertyRepo, clientRepo, uploader)
	return svc, propertyRepo, clientRepo, uploader
}

func TestCreatePropertyForExistingClient(t *testing.T) {
	svc, _, clientRepo, _ := newPropertyFixture()
	client := clientRepo.add(&models.Client{Name: "Hans", Email: "hans@example.com"})

	transaction := "buy"
	price := decimal.NewFromInt(4500000)
	property, err := svc.CreateProperty(context.Background(), client.ID, "Baan Suan", &PropertyInput{
		TransactionType: &transaction,
		SellingPrice:    &price,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, "Baan Suan", property.PropertyName)
	assert.True(t, property.IsActive)
	assert.Equal(t, uint(7), property.CreatedBy)
	require.NotNil(t, property.SellingPrice)
	assert.True(t, price.Equal(*property.SellingPrice))
}

func TestCreatePropertyRejectsUnknownClient(t *testing.T) {
	svc, _, _, _ := newPropertyFixture()

	_, err := svc.CreateProperty(context.Background(), 99, "Baan Suan", &PropertyInput{}, 7)
	assert.ErrorIs(t, err, ErrPropertyClientNotFound)
}

func TestCreatePropertyValidatesVocabularies(t *testing.T) {
	svc, _, clientRepo, _ := newPropertyFixture()
	client := clientRepo.add(&models.Client{Name: "Hans", Email: "hans@example.com"})

	bad := "barter"
	_, err := svc.CreateProperty(context.Background(), client.ID, "Baan Suan", &PropertyInput{
		TransactionType: &bad,
	}, 7)
	assert.ErrorIs(t, err, ErrInvalidPropertyValue)

	badSharing := "split_three_ways"
	_, err = svc.CreateProperty(context.Background(), client.ID, "Baan Suan", &PropertyInput{
		TransferFee: &badSharing,
	}, 7)
	assert.ErrorIs(t, err, ErrInvalidPropertyValue)
}

func TestUpdatePropertyAppliesSetFieldsOnly(t *testing.T) {
	svc, propertyRepo, _, _ := newPropertyFixture()
	agent := "Khun Lek"
	propertyRepo.add(&models.Property{ID: 1, PropertyName: "Baan Suan", AgentName: &agent, IsActive: true})

	condition := "new"
	updated, err := svc.UpdateProperty(context.Background(), 1, &PropertyInput{
		PropertyCondition: &condition,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", *updated.PropertyCondition)
	require.NotNil(t, updated.AgentName)
	assert.Equal(t, "Khun Lek", *updated.AgentName)
}

func TestUploadDocumentRejectsUnknownField(t *testing.T) {
	svc, propertyRepo, _, _ := newPropertyFixture()
	propertyRepo.add(&models.Property{ID: 1, PropertyName: "Baan Suan"})

	_, err := svc.UploadDocument(context.Background(), 1, "selfie", "deed.pdf", "application/pdf", strings.NewReader("doc"))
	assert.ErrorIs(t, err, ErrInvalidDocumentField)
}

func TestUploadDocumentSwapsStoredURL(t *testing.T) {
	svc, propertyRepo, _, uploader := newPropertyFixture()
	old := "https://bucket.example.com/properties/old-deed.pdf"
	propertyRepo.add(&models.Property{ID: 1, PropertyName: "Baan Suan", LandTitleDocument: &old})

	updated, err := svc.UploadDocument(context.Background(), 1, "land_title_document", "deed.pdf", "application/pdf", strings.NewReader("doc"))
	require.NoError(t, err)
	require.NotNil(t, updated.LandTitleDocument)
	assert.Contains(t, *updated.LandTitleDocument, "properties/")
	assert.Equal(t, []string{old}, uploader.deleted)
}

func TestUploadDocumentCleansUpWhenUploadSucceedsButRecordFails(t *testing.T) {
	svc, propertyRepo, _, uploader := newPropertyFixture()
	propertyRepo.add(&models.Property{ID: 1, PropertyName: "Baan Suan"})
	propertyRepo.updateErr = errors.New("db down")

	_, err := svc.UploadDocument(context.Background(), 1, "land_title_document", "deed.pdf", "application/pdf", strings.NewReader("doc"))
	require.Error(t, err)
	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, uploader.uploaded, uploader.deleted)
}

func TestDeleteDocumentClearsFieldAndObject(t *testing.T) {
	svc, propertyRepo, _, uploader := newPropertyFixture()
	url := "https://bucket.example.com/properties/deed.pdf"
	propertyRepo.add(&models.Property{ID: 1, PropertyName: "Baan Suan", LandTitleDocument: &url})

	updated, err := svc.DeleteDocument(context.Background(), 1, "land_title_document")
	require.NoError(t, err)
	assert.Nil(t, updated.LandTitleDocument)
	assert.Equal(t, []string{url}, uploader.deleted)
}

func TestDeletePropertyRemovesDocuments(t *testing.T) {
	svc, propertyRepo, _, uploader := newPropertyFixture()
	land := "https://bucket.example.com/properties/land.pdf"
	house := "https://bucket.example.com/properties/house.pdf"
	propertyRepo.add(&models.Property{
		ID:                 1,
		PropertyName:       "Baan Suan",
		LandTitleDocument:  &land,
		HouseTitleDocument: &house,
	})

	require.NoError(t, svc.DeleteProperty(context.Background(), 1))
	assert.NotContains(t, propertyRepo.properties, uint(1))
	assert.ElementsMatch(t, []string{land, house}, uploader.deleted)
}

func TestPropertyStatsAggregates(t *testing.T) {
	svc, propertyRepo, _, _ := newPropertyFixture()
	buy := "buy"
	sell := "sell"
	condo := "condominium_freehold"
	fresh := "new"
	soon := time.Now().AddDate(0, 0, 7)
	propertyRepo.add(&models.Property{
		ClientID: 1, PropertyName: "Sea View Condo", TransactionType: &buy,
		PropertyType: &condo, PropertyCondition: &fresh,
		ReservationDate: &soon, IsActive: true, CreatedAt: time.Now(),
	})
	propertyRepo.add(&models.Property{
		ClientID: 1, PropertyName: "Hillside Villa", TransactionType: &buy,
		IsActive: true, CreatedAt: time.Now(),
	})
	propertyRepo.add(&models.Property{
		ClientID: 2, PropertyName: "Old Townhouse", TransactionType: &sell,
		IsActive: false, CreatedAt: time.Now().AddDate(0, 0, -45),
	})

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProperties)
	assert.Equal(t, int64(2), stats.ActiveProperties)
	assert.Equal(t, int64(1), stats.InactiveProperties)
	assert.Equal(t, int64(2), stats.RecentProperties)
	assert.Equal(t, int64(1), stats.UpcomingReservations)
	assert.ElementsMatch(t, []repositories.TypeCount{
		{Type: "buy", Count: 2},
		{Type: "sell", Count: 1},
	}, stats.ByTransactionType)
	assert.ElementsMatch(t, []repositories.TypeCount{
		{Type: "condominium_freehold", Count: 1},
	}, stats.ByPropertyType)
	assert.ElementsMatch(t, []repositories.ConditionCount{
		{Condition: "new", Count: 1},
	}, stats.ByCondition)
}
