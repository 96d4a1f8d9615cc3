// Package instagram provides a client for the Meta Graph API endpoints the
// relay needs: resolving the Instagram business account linked to an access
// token, listing the account's media, and fetching carousel album children.
//
// Example usage:
//
//	client := instagram.NewClient(&cfg.Graph, logger.GetLogger())
//
//	posts, err := client.AccountPosts(ctx, account.AccessToken)
//	if err != nil {
//	    var apiErr *errors.Error
//	    if errors.As(err, &apiErr) && apiErr.Type == errors.ErrorTypeRateLimit {
//	        // Back off
//	    }
//	}
//
//	for _, post := range posts {
//	    if post.MediaType == instagram.MediaTypeAlbum {
//	        children, err := client.AlbumChildren(ctx, post.ID, account.AccessToken)
//	        // Handle children
//	    }
//	}
package instagram
