// Package mocks provides mock implementations for testing the clinic portal.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	gateway := mocks.NewMockLoginGateway(ctrl)
//	gateway.EXPECT().Login(gomock.Any(), gomock.Any()).Return(token, nil)
package mocks

// Generate mock for LoginGateway interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=login_gateway_mock.go github.com/target/clinic-portal/internal/ports LoginGateway

// Generate mock for CredentialStorage interface from internal/ports package.
// This creates MockCredentialStorage with methods Get, Set, Remove.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_storage_mock.go github.com/target/clinic-portal/internal/ports CredentialStorage
