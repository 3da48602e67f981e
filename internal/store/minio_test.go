package store

import "testing"

func TestObjectKeyFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		bucket  string
		want    string
		wantErr bool
	}{
		{
			name:   "plain",
			url:    "http://minio:9000/snapit-images/abc123.jpg",
			bucket: "snapit-images",
			want:   "abc123.jpg",
		},
		{
			name:   "https",
			url:    "https://images.example.com/snapit-images/550e8400.png",
			bucket: "snapit-images",
			want:   "550e8400.png",
		},
		{
			name:    "wrong bucket",
			url:     "http://minio:9000/other-bucket/abc123.jpg",
			bucket:  "snapit-images",
			wantErr: true,
		},
		{
			name:    "no key",
			url:     "http://minio:9000/snapit-images/",
			bucket:  "snapit-images",
			wantErr: true,
		},
		{
			name:    "not a url",
			url:     "://bad",
			bucket:  "snapit-images",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := objectKeyFromURL(tt.url, tt.bucket)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got key %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("objectKeyFromURL error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("key: got %q want %q", got, tt.want)
			}
		})
	}
}
