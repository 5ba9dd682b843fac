// Package extmocks моки для интерфейсов внешних пакетов.
package extmocks

//go:generate mockgen -destination=reader_mock.go -package=extmocks -mock_names=Reader=ReaderMock io Reader
