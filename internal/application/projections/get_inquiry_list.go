package projections

import (
	"context"
	"strings"

	"hoteladmin/internal/application/listutil"
	domainInquiry "hoteladmin/internal/domain/inquiry"
)

// InquirySortColumns are the columns the inquiry list can be sorted by.
var InquirySortColumns = []string{"created_at", "email", "type"}

// InquiryFilterKeys are the exact-match filters the inquiry list accepts.
var InquiryFilterKeys = []string{"type"}

// InquiryListResult carries the query result.
type InquiryListResult struct {
	Inquiries []domainInquiry.Inquiry
	Page      listutil.PageInfo
	Unread    int
}

// InquiryListDeps holds dependencies for QueryInquiryList.
type InquiryListDeps struct {
	InquiryStore InquiryStore
}

// QueryInquiryList returns one page of inquiries matching the search and type filter.
// PRE: params parsed with InquirySortColumns and InquiryFilterKeys
// POST: Newest first unless another sort column is requested
func QueryInquiryList(ctx context.Context, params listutil.ListParams, deps InquiryListDeps) (InquiryListResult, error) {
	typeFilter := params.Filters["type"]
	if err := domainInquiry.ValidateTypeFilter(typeFilter); err != nil {
		return InquiryListResult{}, err
	}

	all, err := deps.InquiryStore.List(ctx, typeFilter)
	if err != nil {
		return InquiryListResult{}, err
	}

	matched := make([]domainInquiry.Inquiry, 0, len(all))
	for _, q := range all {
		if q.Matches(params.Search, typeFilter) {
			matched = append(matched, q)
		}
	}
	listutil.SortStable(matched, params.SortParams, inquirySorts)

	unread, err := deps.InquiryStore.CountUnread(ctx)
	if err != nil {
		return InquiryListResult{}, err
	}

	page := listutil.NewPageInfo(params.Page, params.PerPage, len(matched))
	return InquiryListResult{
		Inquiries: listutil.Slice(matched, page),
		Page:      page,
		Unread:    unread,
	}, nil
}

var inquirySorts = map[string]func(a, b domainInquiry.Inquiry) int{
	"email": func(a, b domainInquiry.Inquiry) int {
		return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	},
	"type":       func(a, b domainInquiry.Inquiry) int { return strings.Compare(a.Type, b.Type) },
	"created_at": func(a, b domainInquiry.Inquiry) int { return a.CreatedAt.Compare(b.CreatedAt) },
}
