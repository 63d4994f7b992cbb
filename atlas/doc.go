// Package atlas loads sprite texture atlases and describes their cells.
//
// Images are decoded with the standard PNG, JPEG and GIF decoders plus the
// BMP, TIFF and WebP decoders from golang.org/x/image, then converted to
// tightly packed, premultiplied RGBA8 ready for a texture upload.
//
//	img, err := atlas.Load("sprites.png")
//	if err != nil {
//	    return err
//	}
//	cells := atlas.Grid(4, 4, img.Width/4, img.Height/4)
//	store := sprites.NewStore(sprites.WithAtlasSize(img.Width, img.Height))
//	store.SpawnRandom(100, 1, sprites.V2(11, 8), cells, sprites.V2(2, 2))
package atlas
