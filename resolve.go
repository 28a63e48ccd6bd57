package main

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
)

// DuplicateGroup is a set of at least two files with equal size and digest.
type DuplicateGroup struct {
	Size   int64
	Digest Digest
	Files  []FileRecord
}

func (g DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}

type ResolveOptions struct {
	Workers int
	// OnBucket is called after each size bucket, in processing order.
	OnBucket func(done, total int)
	Log      *slog.Logger
}

type hashJob struct {
	idx  int
	path string
}

type hashResult struct {
	idx    int
	digest Digest
	err    error
}

// ResolveDuplicates hashes every member of every bucket and keeps the digests
// shared by two or more readable files. Buckets are visited by ascending size
// so results and progress are deterministic.
func ResolveDuplicates(ctx context.Context, buckets SizeBuckets, hasher *Hasher, opts ResolveOptions) ([]DuplicateGroup, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := opts.Log
	if log == nil {
		log = discardLogger()
	}
	log = log.With(slog.String("item", "Resolver"))

	sizes := buckets.Sizes()
	groups := make([]DuplicateGroup, 0, len(sizes))

	for done, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files := buckets[size]
		digests := hashBucket(ctx, hasher, files, workers, log)

		byDigest := make(map[Digest][]FileRecord, len(files))
		order := make([]Digest, 0, len(files))
		for i, digest := range digests {
			if digest == "" {
				continue
			}
			if _, ok := byDigest[digest]; !ok {
				order = append(order, digest)
			}
			byDigest[digest] = append(byDigest[digest], files[i])
		}

		for _, digest := range order {
			members := byDigest[digest]
			if len(members) < 2 {
				continue
			}
			groups = append(groups, DuplicateGroup{Size: size, Digest: digest, Files: members})
		}

		if opts.OnBucket != nil {
			opts.OnBucket(done+1, len(sizes))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// hashBucket returns one digest per file, in file order; failed files get "".
func hashBucket(ctx context.Context, hasher *Hasher, files []FileRecord, workers int, log *slog.Logger) []Digest {
	digests := make([]Digest, len(files))
	if workers > len(files) {
		workers = len(files)
	}

	in := make(chan hashJob, len(files))
	out := make(chan hashResult, len(files))
	for i, f := range files {
		in <- hashJob{idx: i, path: f.Path}
	}
	close(in)

	var wg sync.WaitGroup
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go hashWorker(ctx, hasher, in, out, &wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for res := range out {
		if res.err != nil {
			log.Debug("Skip unhashable file", slog.String("path", files[res.idx].Path), slog.Any("error", res.err))
			continue
		}
		digests[res.idx] = res.digest
	}
	return digests
}

func hashWorker(ctx context.Context, hasher *Hasher, in <-chan hashJob, out chan<- hashResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range in {
		if ctx.Err() != nil {
			return
		}
		digest, err := hasher.Hash(job.path)
		out <- hashResult{idx: job.idx, digest: digest, err: err}
	}
}
