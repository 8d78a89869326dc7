package graph

import (
	"github.com/graphql-go/graphql"

	"atelier/internal/guard"
	"atelier/internal/service"
)

// tokenArg is accepted on every guarded operation; the Authorization
// header works as well.
var tokenArg = &graphql.ArgumentConfig{Type: graphql.String}

// Schema builds the executable schema. Guarded mutations are wrapped with
// the rule engine so their resolvers never run for rejected requests.
func (r *Resolver) Schema(engine *guard.Engine) (graphql.Schema, error) {
	var userType, postType, bioType *graphql.Object

	userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":       &graphql.Field{Type: graphql.ID},
				"username": &graphql.Field{Type: graphql.String},
				"email":    &graphql.Field{Type: graphql.String},
				"handle":   &graphql.Field{Type: graphql.String},
				"profilePicture": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						u, ok := userSource(p)
						if !ok {
							return nil, nil
						}
						return u.ProfilePicture, nil
					},
				},
				"following": &graphql.Field{Type: graphql.NewList(graphql.String)},
				"followers": &graphql.Field{Type: graphql.NewList(graphql.String)},
				"followersCount": &graphql.Field{
					Type: graphql.Int,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						u, ok := userSource(p)
						if !ok {
							return 0, nil
						}
						// Derived view of the followers set.
						return len(u.Followers), nil
					},
				},
				"artist": &graphql.Field{Type: graphql.Boolean},
				"role":   &graphql.Field{Type: graphql.String},
				"bio": &graphql.Field{
					Type: bioType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						u, ok := userSource(p)
						if !ok {
							return nil, nil
						}
						bio, err := r.bios.ForUser(p.Context, u.ID)
						if err != nil || bio == nil {
							return nil, err
						}
						return bio, nil
					},
				},
				"posts": &graphql.Field{
					Type: graphql.NewList(postType),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						u, ok := userSource(p)
						if !ok {
							return nil, nil
						}
						return r.posts.ListPostsByAuthor(p.Context, u.Handle)
					},
				},
			}
		}),
	})

	bioType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Bio",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":       &graphql.Field{Type: graphql.ID},
				"body":     &graphql.Field{Type: graphql.String},
				"website":  &graphql.Field{Type: graphql.String},
				"location": &graphql.Field{Type: graphql.String},
				"bioBy": &graphql.Field{
					Type: userType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						b, ok := bioSource(p)
						if !ok {
							return nil, nil
						}
						return r.users.GetByID(p.Context, b.UserID)
					},
				},
			}
		}),
	})

	postType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":      &graphql.Field{Type: graphql.ID},
				"title":   &graphql.Field{Type: graphql.String},
				"content": &graphql.Field{Type: graphql.String},
				"postImage": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						post, ok := postSource(p)
						if !ok {
							return nil, nil
						}
						return post.PostImage, nil
					},
				},
				"postedBy": &graphql.Field{
					Type: userType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						post, ok := postSource(p)
						if !ok {
							return nil, nil
						}
						author, err := r.users.GetByHandle(p.Context, post.PostedBy)
						if err != nil || author == nil {
							return nil, err
						}
						return author, nil
					},
				},
				"createdAt": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						post, ok := postSource(p)
						if !ok {
							return nil, nil
						}
						return post.CreatedAt.String(), nil
					},
				},
				"likesCount": &graphql.Field{
					Type: graphql.Int,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						post, ok := postSource(p)
						if !ok {
							return 0, nil
						}
						return len(post.LikedBy), nil
					},
				},
				"likedBy": &graphql.Field{
					Type: graphql.NewList(userType),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						post, ok := postSource(p)
						if !ok {
							return nil, nil
						}
						return r.users.ListByIDs(p.Context, post.LikedBy)
					},
				},
			}
		}),
	})

	loginType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Login",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.String},
			"user": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if res, ok := p.Source.(*service.LoginResult); ok {
						return res.User, nil
					}
					return nil, nil
				},
			},
		},
	})

	queries := graphql.NewObject(graphql.ObjectConfig{
		Name: "Queries",
		Fields: graphql.Fields{
			"getUserById": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return r.users.GetByID(p.Context, id)
				},
			},
			"getAllUsers": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.users.List(p.Context, 0, 0)
				},
			},
			"getAllArtists": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.users.ListArtists(p.Context)
				},
			},
			"getMostFollowedUsers": &graphql.Field{
				Type: graphql.NewList(userType),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.users.ListMostFollowed(p.Context, intArg(p, "limit"), intArg(p, "offset"))
				},
			},
			"getPostById": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return r.posts.GetPost(p.Context, id)
				},
			},
			"getAllPosts": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.posts.ListPosts(p.Context, intArg(p, "limit"), intArg(p, "offset"))
				},
			},
			"getAllPostsByUser": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"handle": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.posts.ListPostsByAuthor(p.Context, stringArg(p, "handle"))
				},
			},
			"searchPosts": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.posts.SearchPosts(p.Context, stringArg(p, "search"))
				},
			},
			"getMostLikedPosts": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.posts.ListMostLiked(p.Context, intArg(p, "limit"), intArg(p, "offset"))
				},
			},
			"getCurrentUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{"token": tokenArg},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.accounts.CurrentUser(p.Context, credentials(p).BearerToken())
				},
			},
			"getCurrentUserBio": &graphql.Field{
				Type: bioType,
				Args: graphql.FieldConfigArgument{"token": tokenArg},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := r.accounts.CurrentUser(p.Context, credentials(p).BearerToken())
					if err != nil {
						return nil, err
					}
					bio, err := r.bios.ForUser(p.Context, user.ID)
					if err != nil || bio == nil {
						return nil, err
					}
					return bio, nil
				},
			},
		},
	})

	mutations := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutations",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"handle":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.accounts.Register(p.Context, service.RegisterInput{
						Username: stringArg(p, "username"),
						Email:    stringArg(p, "email"),
						Handle:   stringArg(p, "handle"),
						Password: stringArg(p, "password"),
					})
				},
			},
			"login": &graphql.Field{
				Type: loginType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.accounts.Login(p.Context, stringArg(p, "email"), stringArg(p, "password"))
				},
			},
			"updateUsername": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"token":    tokenArg,
				},
				Resolve: guarded(engine, "updateUsername", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					targetID, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return r.accounts.UpdateUsername(p.Context, callerID, targetID, stringArg(p, "username"))
				}),
			},
			"updateEmail": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"token": tokenArg,
				},
				Resolve: guarded(engine, "updateEmail", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					targetID, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return r.accounts.UpdateEmail(p.Context, callerID, targetID, stringArg(p, "email"))
				}),
			},
			"createOrUpdateBio": &graphql.Field{
				Type: bioType,
				Args: graphql.FieldConfigArgument{
					"body":     &graphql.ArgumentConfig{Type: graphql.String},
					"website":  &graphql.ArgumentConfig{Type: graphql.String},
					"location": &graphql.ArgumentConfig{Type: graphql.String},
					"token":    tokenArg,
				},
				Resolve: guarded(engine, "createOrUpdateBio", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					return r.bios.CreateOrUpdate(p.Context, callerID, service.BioInput{
						Body:     stringArg(p, "body"),
						Website:  stringArg(p, "website"),
						Location: stringArg(p, "location"),
					})
				}),
			},
			"createPost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"title":     &graphql.ArgumentConfig{Type: graphql.String},
					"content":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"postImage": &graphql.ArgumentConfig{Type: graphql.String},
					"token":     tokenArg,
				},
				Resolve: guarded(engine, "createPost", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					return r.posts.CreatePost(p.Context, service.CreatePostInput{
						AuthorID:  callerID,
						Title:     stringArg(p, "title"),
						Content:   stringArg(p, "content"),
						PostImage: stringArg(p, "postImage"),
					})
				}),
			},
			"likeOrDislikePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"token": tokenArg,
				},
				Resolve: guarded(engine, "likeOrDislikePost", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					postID, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return r.rels.LikeOrDislike(p.Context, callerID, postID)
				}),
			},
			"followOrUnfollowUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"handle": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"token":  tokenArg,
				},
				Resolve: guarded(engine, "followOrUnfollowUser", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					return r.rels.FollowOrUnfollow(p.Context, callerID, stringArg(p, "handle"))
				}),
			},
			"uploadProfilePicture": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"image": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"token": tokenArg,
				},
				Resolve: guarded(engine, "uploadProfilePicture", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					data, err := decodeImageArg(p)
					if err != nil {
						return nil, err
					}
					return r.accounts.UploadProfilePicture(p.Context, callerID, data)
				}),
			},
			"uploadPostImage": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"image": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"token": tokenArg,
				},
				Resolve: guarded(engine, "uploadPostImage", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					postID, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					data, err := decodeImageArg(p)
					if err != nil {
						return nil, err
					}
					return r.posts.UploadPostImage(p.Context, callerID, postID, data)
				}),
			},
			"deletePostById": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"token": tokenArg,
				},
				Resolve: guarded(engine, "deletePostById", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					postID, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return r.posts.DeletePost(p.Context, callerID, postID)
				}),
			},
			"toggleArtist": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{"token": tokenArg},
				Resolve: guarded(engine, "toggleArtist", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					return r.accounts.ToggleArtist(p.Context, callerID)
				}),
			},
			"deleteAccount": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{"token": tokenArg},
				Resolve: guarded(engine, "deleteAccount", func(p graphql.ResolveParams) (interface{}, error) {
					callerID, err := r.callerID(p)
					if err != nil {
						return nil, err
					}
					return r.accounts.DeleteAccount(p.Context, callerID)
				}),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queries,
		Mutation: mutations,
	})
}
