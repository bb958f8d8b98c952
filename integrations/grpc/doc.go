// Package grpc provides gRPC server interceptors for bearer token
// authentication.
//
// The interceptors extract a bearer token from the "authorization"
// metadata key, validate it with an authsdk.SDK, and make the resulting
// user available in the request context via authsdk.UserFromContext.
//
//	interceptor, err := authgrpc.New(sdk,
//	    authgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
package grpc
