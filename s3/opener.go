// Package s3 fetches s3:// archive URLs for priming.
package s3

import (
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// Opener is a sparkprep.Opener for s3://bucket/key URLs.
type Opener struct {
	Region string

	once sync.Once
	svc  *s3.S3
	err  error
}

// Open fetches the object named by url.
func (o *Opener) Open(url string) (io.ReadCloser, error) {
	bucket, key, err := parseURL(url)
	if err != nil {
		return nil, err
	}
	o.once.Do(func() {
		var sess *session.Session
		sess, o.err = session.NewSession(&aws.Config{Region: aws.String(o.Region)})
		if o.err != nil {
			o.err = errors.Wrap(o.err, "getting aws session")
			return
		}
		o.svc = s3.New(sess)
	})
	if o.err != nil {
		return nil, o.err
	}
	result, err := o.svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching s3://%s/%s", bucket, key)
	}
	return result.Body, nil
}

func parseURL(url string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(url, "s3://")
	if rest == url {
		return "", "", errors.Errorf("'%s' is not an s3:// url", url)
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("'%s' has no bucket/key", url)
	}
	return parts[0], parts[1], nil
}
