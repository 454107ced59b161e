// Package pagination converts client-supplied limit/offset pairs and a total
// row count into the page descriptor embedded in every listing response.
//
//	params, err := pagination.ParseParams(r)   // 400 on bad input, before any query
//	page := pagination.Paginate(params.Limit, params.Offset, total)
//
// The pageSize field is deliberately not clamped at zero for out-of-range
// offsets; see Paginate.
package pagination
