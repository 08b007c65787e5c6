package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/gamelog --output domain/gamelog --outpkg gamelogmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/absence --output domain/absence --outpkg absencemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/dataset --output domain/dataset --outpkg datasetmock --filename repository_mock.go
