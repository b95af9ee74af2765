package client

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

type UserClient struct {
	http *httpclient.Client
	now  func() time.Time
}

var _ user.Client = (*UserClient)(nil)

func NewUserClient(hc *httpclient.Client) *UserClient {
	return &UserClient{http: hc, now: time.Now}
}

// UploadProfilePic sends photo as multipart field "file". A missing file
// name becomes profile_<unixtime>.jpg and a missing type image/jpeg.
func (c *UserClient) UploadProfilePic(ctx context.Context, photo user.Photo) (user.UploadPhotoResponse, error) {
	if photo.Content == nil {
		return user.UploadPhotoResponse{}, apierror.Invalid(user.ErrEmptyPhoto)
	}
	photo = photo.WithDefaults(c.now())

	env, err := httpclient.PostMultipart[user.UploadPhotoResponse](ctx, c.http, "/uploadProfilePic", httpclient.File{
		FieldName:   user.PhotoFieldName,
		FileName:    photo.FileName,
		ContentType: photo.ContentType,
		Content:     photo.Content,
	})
	if err != nil {
		return user.UploadPhotoResponse{}, err
	}
	return env.Data, nil
}
