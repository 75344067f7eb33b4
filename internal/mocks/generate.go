package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ResultProvider --dir ../usecase --output usecase --outpkg usecasemock --filename result_provider_mock.go
