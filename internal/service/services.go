package service

import (
	"SchoolAPI/internal/service/auth"
)

type Collection struct {
	*auth.AccountService
}
