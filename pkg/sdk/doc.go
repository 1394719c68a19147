// Package browsekit embeds the browsing engine in a Go program: a filtered,
// paginated, selectable and groupable view over any record type, plus the
// drag reordering helpers used by admin lists.
//
// # Client mode: the host holds the whole list
//
//	acc := browsekit.Accessor[Speaker]{
//	    ID:    func(s Speaker) string { return s.ID },
//	    Name:  func(s Speaker) string { return s.Name },
//	    Facet: func(s Speaker, f string) string { return s.Track },
//	}
//	sess, _ := browsekit.NewClientSession(ctx, acc, speakers,
//	    browsekit.WithReveal(24, 24),
//	    browsekit.WithCapacity(3),
//	)
//	defer sess.Close()
//	_ = sess.SetText("am")
//	sess.FlushText()
//	snap := sess.Snapshot()
//
// # Server mode: the data source pages
//
//	src := browsekit.DataSourceFunc[Item](func(ctx context.Context, p browsekit.PageParams) (browsekit.Page[Item], error) {
//	    return api.Items(ctx, p.Text, p.Facets, p.Page, p.PageSize)
//	})
//	sess, _ := browsekit.NewServerSession(ctx, acc, src, browsekit.WithPageSize(20))
//
// # Reordering
//
//	order = browsekit.Move(order, draggedID, overID)
//	assignments := browsekit.Assign(order)
package browsekit
