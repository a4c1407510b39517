package main

import (
	"context"
	"errors"

	"github.com/sells-group/neighbourhood-cli/internal/model"
	"github.com/sells-group/neighbourhood-cli/internal/scorer"
)

type fakeService struct {
	reports map[string]*model.Report
	err     error
	checked []model.Address
}

func (f *fakeService) Check(_ context.Context, addr model.Address) (*model.Report, error) {
	f.checked = append(f.checked, addr)
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.reports[addr.Street]
	if !ok {
		return nil, errors.New("dawa: no address candidates")
	}
	out := *r
	out.Address = addr
	return &out, nil
}

func (f *fakeService) Compare(ctx context.Context, a, b model.Address) (*model.Comparison, error) {
	first, err := f.Check(ctx, a)
	if err != nil {
		return nil, err
	}
	second, err := f.Check(ctx, b)
	if err != nil {
		return nil, err
	}
	return &model.Comparison{First: *first, Second: *second, Best: scorer.Compare(*first, *second)}, nil
}

func campusvejReport() *model.Report {
	return &model.Report{
		CheckID:  "11111111-1111-1111-1111-111111111111",
		Address:  model.Address{Street: "Campusvej", HouseNumber: "55", PostalCode: "5230", City: "Odense M"},
		Location: model.ResolvedLocation{Municipality: "Odense", AddressID: "0a3f507a"},
		Scores:   model.ScoreTriple{Connectivity: 8, Crime: 6.73, Education: 4.2},
		Final:    6.31,
	}
}

func vestergadeReport() *model.Report {
	return &model.Report{
		CheckID:  "22222222-2222-2222-2222-222222222222",
		Address:  model.Address{Street: "Vestergade", HouseNumber: "1", PostalCode: "5000", City: "Odense C"},
		Location: model.ResolvedLocation{Municipality: "Odense", AddressID: "0a3f507b"},
		Scores:   model.ScoreTriple{Connectivity: 10, Crime: 7, Education: 5.5},
		Final:    7.5,
	}
}

func newFakeService() *fakeService {
	return &fakeService{reports: map[string]*model.Report{
		"Campusvej":  campusvejReport(),
		"Vestergade": vestergadeReport(),
	}}
}
