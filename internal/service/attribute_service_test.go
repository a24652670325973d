package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/repository"
	mockcatalogrepository "retail-analytics-service/internal/testdata/mockcatalogrepository"
)

type AttributeServiceTestSuite struct {
	suite.Suite

	catalog *mockcatalogrepository.Repository
	service AttributeService
}

func TestAttributeServiceSuite(t *testing.T) {
	suite.Run(t, new(AttributeServiceTestSuite))
}

func (s *AttributeServiceTestSuite) SetupTest() {
	s.catalog = &mockcatalogrepository.Repository{}
	s.service = NewAttributeService(s.catalog)
}

func brandDefinition() *model.AttributeDefinition {
	return &model.AttributeDefinition{ID: 5, Name: "Бренд", Code: "brand", DataType: model.AttrText}
}

func (s *AttributeServiceTestSuite) TestSetProductAttribute_CreatesNewValue() {
	s.catalog.On("GetAttributeDefinition", mock.Anything, "brand").Return(brandDefinition(), nil)
	s.catalog.On("GetAttributeValue", mock.Anything, int64(1), int64(5)).Return(nil, repository.ErrNotFound)
	s.catalog.On("UpsertAttributeValue", mock.Anything, mock.MatchedBy(func(v *model.AttributeValue) bool {
		return v.ProductID == 1 && v.AttributeID == 5 &&
			v.ValueText != nil && *v.ValueText == "acme"
	})).Return(nil)

	view, err := s.service.SetProductAttribute(context.Background(), 1, "brand", "acme")

	s.NoError(err)
	s.Equal("brand", view.Code)
	s.Equal("acme", view.Value)
	s.Equal("acme", view.Display)
	s.catalog.AssertExpectations(s.T())
}

func (s *AttributeServiceTestSuite) TestSetProductAttribute_ReplacesExistingValue() {
	old := "oldbrand"
	existing := &model.AttributeValue{
		ID: 9, ProductID: 1, AttributeID: 5, ValueText: &old,
	}
	s.catalog.On("GetAttributeDefinition", mock.Anything, "brand").Return(brandDefinition(), nil)
	s.catalog.On("GetAttributeValue", mock.Anything, int64(1), int64(5)).Return(existing, nil)
	s.catalog.On("UpsertAttributeValue", mock.Anything, mock.MatchedBy(func(v *model.AttributeValue) bool {
		return v.ID == 9 && *v.ValueText == "newbrand"
	})).Return(nil)

	view, err := s.service.SetProductAttribute(context.Background(), 1, "brand", "newbrand")

	s.NoError(err)
	s.Equal("newbrand", view.Display)
}

func (s *AttributeServiceTestSuite) TestSetProductAttribute_CoercionFailureDoesNotPersist() {
	def := brandDefinition()
	def.DataType = model.AttrInteger
	s.catalog.On("GetAttributeDefinition", mock.Anything, "brand").Return(def, nil)
	s.catalog.On("GetAttributeValue", mock.Anything, int64(1), int64(5)).Return(nil, repository.ErrNotFound)

	_, err := s.service.SetProductAttribute(context.Background(), 1, "brand", "not-a-number")

	s.Error(err)
	s.IsType(&model.CoercionError{}, err)
	s.catalog.AssertNotCalled(s.T(), "UpsertAttributeValue")
}

func (s *AttributeServiceTestSuite) TestSetProductAttribute_UnknownAttribute() {
	s.catalog.On("GetAttributeDefinition", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := s.service.SetProductAttribute(context.Background(), 1, "ghost", "x")

	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *AttributeServiceTestSuite) TestListProductAttributes() {
	yes := true
	values := []model.AttributeValue{
		{
			ProductID: 1, AttributeID: 5, ValueBoolean: &yes,
			Attribute: model.AttributeDefinition{Code: "in_stock", Name: "В наличии", DataType: model.AttrBoolean},
		},
	}
	s.catalog.On("ListAttributeValues", mock.Anything, int64(1)).Return(values, nil)

	views, err := s.service.ListProductAttributes(context.Background(), 1)

	s.NoError(err)
	s.Len(views, 1)
	s.Equal("in_stock", views[0].Code)
	s.Equal(true, views[0].Value)
	s.Equal("Да", views[0].Display)
}
