package user

import (
	"net/http"

	"github.com/maximthomas/legacybridge/pkg/auth"
	"github.com/maximthomas/legacybridge/pkg/rest"
	"github.com/pkg/errors"
)

var us Service

func InitUserService(uc Config) error {
	newUs, err := newUserService(uc)
	if err != nil {
		return err
	}
	us = newUs
	return nil
}

func GetUserService() Service {
	return us
}

func SetUserService(newUs Service) {
	us = newUs
}

func newUserService(uc Config) (Service, error) {
	if uc.URI == "" {
		return Service{}, errors.New("legacy api uri is not set")
	}
	client := rest.NewClient(&http.Client{})
	strategies := auth.NewProvider(uc.Properties)
	return NewService(uc.URI, client, strategies), nil
}
