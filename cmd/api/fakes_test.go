package main

import (
	"context"

	"github.com/NigelFerrefe/bookquest-bk/internal/data"
)

// Function-field fakes for the data.Models interfaces. A test configures
// only the calls it expects; anything else panics so unexpected model
// traffic fails loudly.

type fakeAuthors struct {
	insertFn      func(author *data.Author) error
	getFn         func(id, ownerID int64) (*data.Author, error)
	getByNameFn   func(name string, ownerID int64) (*data.Author, error)
	getOrCreateFn func(name string, ownerID int64) (*data.Author, error)
	getAllFn      func(ownerID int64, filters data.Filters) ([]*data.Author, data.Pagination, error)
	updateFn      func(author *data.Author) error
	deleteFn      func(id, ownerID int64) error
}

func (f *fakeAuthors) Insert(author *data.Author) error {
	if f.insertFn == nil {
		panic("unexpected Authors.Insert call")
	}
	return f.insertFn(author)
}

func (f *fakeAuthors) Get(id, ownerID int64) (*data.Author, error) {
	if f.getFn == nil {
		panic("unexpected Authors.Get call")
	}
	return f.getFn(id, ownerID)
}

func (f *fakeAuthors) GetByName(name string, ownerID int64) (*data.Author, error) {
	if f.getByNameFn == nil {
		panic("unexpected Authors.GetByName call")
	}
	return f.getByNameFn(name, ownerID)
}

func (f *fakeAuthors) GetOrCreate(name string, ownerID int64) (*data.Author, error) {
	if f.getOrCreateFn == nil {
		panic("unexpected Authors.GetOrCreate call")
	}
	return f.getOrCreateFn(name, ownerID)
}

func (f *fakeAuthors) GetAll(ownerID int64, filters data.Filters) ([]*data.Author, data.Pagination, error) {
	if f.getAllFn == nil {
		panic("unexpected Authors.GetAll call")
	}
	return f.getAllFn(ownerID, filters)
}

func (f *fakeAuthors) Update(author *data.Author) error {
	if f.updateFn == nil {
		panic("unexpected Authors.Update call")
	}
	return f.updateFn(author)
}

func (f *fakeAuthors) Delete(id, ownerID int64) error {
	if f.deleteFn == nil {
		panic("unexpected Authors.Delete call")
	}
	return f.deleteFn(id, ownerID)
}

type fakeGenres struct {
	insertFn      func(genre *data.Genre) error
	getFn         func(id, ownerID int64) (*data.Genre, error)
	getByNameFn   func(name string, ownerID int64) (*data.Genre, error)
	getOrCreateFn func(name string, ownerID int64) (*data.Genre, error)
	getAllFn      func(ownerID int64, filters data.Filters) ([]*data.Genre, data.Pagination, error)
	updateFn      func(genre *data.Genre) error
	deleteFn      func(id, ownerID int64) error
}

func (f *fakeGenres) Insert(genre *data.Genre) error {
	if f.insertFn == nil {
		panic("unexpected Genres.Insert call")
	}
	return f.insertFn(genre)
}

func (f *fakeGenres) Get(id, ownerID int64) (*data.Genre, error) {
	if f.getFn == nil {
		panic("unexpected Genres.Get call")
	}
	return f.getFn(id, ownerID)
}

func (f *fakeGenres) GetByName(name string, ownerID int64) (*data.Genre, error) {
	if f.getByNameFn == nil {
		panic("unexpected Genres.GetByName call")
	}
	return f.getByNameFn(name, ownerID)
}

func (f *fakeGenres) GetOrCreate(name string, ownerID int64) (*data.Genre, error) {
	if f.getOrCreateFn == nil {
		panic("unexpected Genres.GetOrCreate call")
	}
	return f.getOrCreateFn(name, ownerID)
}

func (f *fakeGenres) GetAll(ownerID int64, filters data.Filters) ([]*data.Genre, data.Pagination, error) {
	if f.getAllFn == nil {
		panic("unexpected Genres.GetAll call")
	}
	return f.getAllFn(ownerID, filters)
}

func (f *fakeGenres) Update(genre *data.Genre) error {
	if f.updateFn == nil {
		panic("unexpected Genres.Update call")
	}
	return f.updateFn(genre)
}

func (f *fakeGenres) Delete(id, ownerID int64) error {
	if f.deleteFn == nil {
		panic("unexpected Genres.Delete call")
	}
	return f.deleteFn(id, ownerID)
}

type fakeBooks struct {
	insertFn     func(book *data.Book) error
	getFn        func(id, ownerID int64) (*data.Book, error)
	getByTitleFn func(title string, ownerID int64) (*data.Book, error)
	getAllFn     func(filter data.BookFilter) ([]*data.Book, data.Pagination, error)
	updateFn     func(book *data.Book) error
	deleteFn     func(id, ownerID int64) error
}

func (f *fakeBooks) Insert(book *data.Book) error {
	if f.insertFn == nil {
		panic("unexpected Books.Insert call")
	}
	return f.insertFn(book)
}

func (f *fakeBooks) Get(id, ownerID int64) (*data.Book, error) {
	if f.getFn == nil {
		panic("unexpected Books.Get call")
	}
	return f.getFn(id, ownerID)
}

func (f *fakeBooks) GetByTitle(title string, ownerID int64) (*data.Book, error) {
	if f.getByTitleFn == nil {
		panic("unexpected Books.GetByTitle call")
	}
	return f.getByTitleFn(title, ownerID)
}

func (f *fakeBooks) GetAll(filter data.BookFilter) ([]*data.Book, data.Pagination, error) {
	if f.getAllFn == nil {
		panic("unexpected Books.GetAll call")
	}
	return f.getAllFn(filter)
}

func (f *fakeBooks) Update(book *data.Book) error {
	if f.updateFn == nil {
		panic("unexpected Books.Update call")
	}
	return f.updateFn(book)
}

func (f *fakeBooks) Delete(id, ownerID int64) error {
	if f.deleteFn == nil {
		panic("unexpected Books.Delete call")
	}
	return f.deleteFn(id, ownerID)
}

// fakeUploader records upload calls and answers with a fixed URL or error.
type fakeUploader struct {
	hostedURL string
	err       error
	calls     []string
}

func (f *fakeUploader) Upload(ctx context.Context, imageURL string) (string, error) {
	f.calls = append(f.calls, imageURL)
	if f.err != nil {
		return "", f.err
	}
	return f.hostedURL, nil
}
